// Package translation drives chunk-by-chunk document translation through a
// remote language model. It classifies backend failures into rate-limit,
// transient, and fatal kinds, retries the recoverable ones with
// exponential backoff, and accumulates token usage across a run.
package translation
