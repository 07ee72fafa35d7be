// Package mapper infers which canonical product field each
// spreadsheet column holds. An exact keyword pass handles the common
// header spellings; unknown headers go to a generative-model oracle,
// and when that is unavailable a loose substring match takes over.
// Results are cached per distinct header sequence.
package mapper
