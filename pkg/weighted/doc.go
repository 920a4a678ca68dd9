/*
Package weighted provides a mutable weighted sampler over unique
elements. Weights are integer counts; draws run in O(log n) against a
cached cumulative-weight slice, and weight edits run in O(n).

A Sampler can be driven deterministically by passing an explicit draw
value to DrawAt, or randomly through a Source injected with SetSource.
The sampler is the building block for the context-indexed models in
package markov, but it is useful on its own as a weighted die or loot
table.
*/
package weighted
