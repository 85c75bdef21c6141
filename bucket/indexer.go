package bucket

import (
	"errors"
	"math/rand/v2"
	"slices"
)

// indexer indexes the instances of a window and sorts them by their
// composite sort key, longest first.
type indexer struct {
	keys       []SortingKey
	vocab      Vocabulary
	pretrained []string
	noise      float64
	rng        *rand.Rand
	epoch      int

	// serial is the next serial number of the pass.
	serial int
}

// index wraps, indexes and sorts the window.
func (ix *indexer) index(window []Instance) ([]*Indexed, error) {
	if len(ix.keys) == 0 {
		return nil, &ConfigurationError{Err: ErrNoSortingKeys}
	}
	if ix.vocab == nil {
		return nil, &ConfigurationError{Err: ErrNoVocabulary}
	}

	items := make([]*Indexed, 0, len(window))
	for _, inst := range window {
		serial := ix.serial
		ix.serial++

		if err := inst.IndexFields(ix.vocab, ix.pretrained, serial); err != nil {
			var cfgErr *ConfigurationError
			if errors.As(err, &cfgErr) {
				return nil, err
			}
			return nil, &IndexError{Serial: serial, Err: err}
		}

		lengths := inst.PaddingLengths()
		key, err := ix.sortKey(lengths, serial)
		if err != nil {
			return nil, err
		}

		items = append(items, &Indexed{
			Instance: inst,
			Serial:   serial,
			Epoch:    ix.epoch,
			Lengths:  lengths,
			SortKey:  key,
		})
	}

	// Stable, so instances with equal keys keep their source order.
	slices.SortStableFunc(items, func(a, b *Indexed) int {
		return slices.Compare(b.SortKey, a.SortKey)
	})

	return items, nil
}

func (ix *indexer) sortKey(lengths PaddingLengths, serial int) ([]float64, error) {
	key := make([]float64, len(ix.keys))
	for i, k := range ix.keys {
		field, ok := lengths[k.Field]
		if !ok {
			return nil, configErrorf("instance %d has no field %q to sort by", serial, k.Field)
		}
		v, ok := field[k.Measure]
		if !ok {
			return nil, configErrorf("field %q of instance %d has no padding length %q", k.Field, serial, k.Measure)
		}
		key[i] = ix.perturb(float64(v))
	}
	return key, nil
}

// perturb adds uniform noise of up to ±noise·v.
func (ix *indexer) perturb(v float64) float64 {
	if ix.noise == 0 {
		return v
	}
	return v + v*ix.noise*(2*ix.rng.Float64()-1)
}
