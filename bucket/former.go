package bucket

// former cuts a sorted window into batches.
//
// Without a budget every group of batchSize instances is a batch. With a
// budget, groups are appended to carry and drained into batches that respect
// the budget; the batch still under formation stays in carry and continues
// with the next group. flush empties carry at the end of a window.
type former struct {
	batchSize int
	budget    *TokenBudget
	window    int
	logger    Logger
	stats     StatsCollector

	carry []*Indexed
}

// form returns the batches of a sorted window, including the flushed carry.
func (f *former) form(sorted []*Indexed) []Batch {
	var out []Batch
	for start := 0; start < len(sorted); start += f.batchSize {
		end := min(start+f.batchSize, len(sorted))
		group := sorted[start:end]

		if f.budget == nil {
			out = append(out, f.newBatch(group))
			continue
		}

		f.carry = append(f.carry, group...)
		out = f.drain(out)
	}
	return f.flush(out)
}

// drain moves complete batches out of carry. A batch is complete when it holds
// batchSize instances or when the next instance would exceed the budget.
func (f *former) drain(out []Batch) []Batch {
	var current []*Indexed
	for _, item := range f.carry {
		if len(current) > 0 && f.exceeds(append(current, item)) {
			out = append(out, f.newBatch(current))
			current = nil
		}
		if len(current) == 0 && f.exceeds([]*Indexed{item}) {
			f.logger.Warn("Window %d: instance %d alone exceeds %s budget of %d, batching it alone",
				f.window, item.Serial, f.budget.Key, f.budget.Max)
			f.stats.RecordOversized()
			out = append(out, f.newBatch([]*Indexed{item}))
			continue
		}

		current = append(current, item)
		if len(current) == f.batchSize {
			out = append(out, f.newBatch(current))
			current = nil
		}
	}
	f.carry = append(f.carry[:0], current...)
	return out
}

// flush appends whatever is left in carry as a final batch.
func (f *former) flush(out []Batch) []Batch {
	if len(f.carry) == 0 {
		return out
	}
	out = append(out, f.newBatch(f.carry))
	f.carry = nil
	return out
}

func (f *former) exceeds(items []*Indexed) bool {
	b := Batch{Items: items}
	if f.budget.Mode == BudgetPadded {
		return b.PaddedSize(f.budget.Key) > f.budget.Max
	}
	return b.Size(f.budget.Key) > f.budget.Max
}

func (f *former) newBatch(items []*Indexed) Batch {
	f.stats.RecordBatch(len(items))
	return Batch{
		Items:  append([]*Indexed(nil), items...),
		Window: f.window,
	}
}
