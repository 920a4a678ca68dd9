/*
Package markov provides variable-order probabilistic sequence models
for procedural generation: name and word generators, tile-based map
synthesis, and similar statistically-trained continuations.

A Model maps fixed-length context windows to weighted samplers. Each
training observation (context window, next element, weight delta) is
recorded under its exact context and, when optional positions are
configured, under every wildcarded coarsening of that context. Later
queries with partially-known context then succeed without ever having
been trained on that exact partial pattern.

Models are generic over any comparable element type, single-threaded,
and purely in-memory. Randomness is injected through weighted.Source;
serialization is JSON through Export/Import, with SQLite persistence
available in package store.
*/
package markov
