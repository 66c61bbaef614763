// Package files discovers input files on the local file system.
//
// Discovery expands a directory or a glob pattern into the CSV files it
// contains, in name order, so that shards such as 1mayo.csv and 2agosto.csv
// are merged in sequence.
//
// Example usage:
//
//	discovery := files.NewDiscovery("")
//	shards, err := discovery.FindCSVFiles("data/raw")
//	if err != nil {
//	    return err
//	}
//	for _, f := range shards {
//	    fmt.Println(f.Path, f.Size)
//	}
package files
