// Package source contains several implementations of the bucket.Source
// interface for common data source scenarios, including:
//
// - Slice: For in-memory datasets
// - Channel: For producers that push instances over channels
// - JSONLines: For datasets stored as one JSON object per line
// - Error: For simulating failing sources in tests
//
// Every Open call starts a new pass from the beginning, so each epoch sees
// the whole dataset again.
//
// Basic usage of the Slice source:
//
//	src := source.Slice(a, b, c)
//	r, _ := src.Open(context.Background())
//	for {
//	    inst, err := r.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    fmt.Println(inst)
//	}
package source
