// Package cache stores synthesized speech audio on disk so repeated prompts
// do not spend provider quota. Entries are zstd-compressed and evicted
// least-recently-used first once the size cap is reached.
package cache
