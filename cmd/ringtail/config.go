package main

import "time"

const (
	Version = "0.1.0"

	DefaultCapacity = 4096
	DefaultTimeout  = time.Duration(0)
	FeedChunkSize   = 32 * 1024
)
