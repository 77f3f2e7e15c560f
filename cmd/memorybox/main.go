// Package main starts the memorybox service.
package main

import "github.com/eduardoinoa18/memorybox/pkg/cmd"

//	@title			MemoryBox API
//	@version		1.0
//	@description	MemoryBox stores user memories (photos, videos, documents) and keeps their metadata and storage aggregates in sync.

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
