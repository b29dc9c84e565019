// Command spmcachesim replays memory access traces through a cache that can
// migrate write-intensive lines into a scratchpad memory.
package main

import "github.com/sarchlab/spmcache/spmcachesim/cmd"

func main() {
	cmd.Execute()
}
