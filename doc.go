// Package hufzip implements lossless compression of byte streams using
// static Huffman codes.  The frequency table of the whole input is counted
// first, a prefix tree is built from it, and the input is then encoded one
// byte at a time, followed by a synthetic end-of-payload symbol.
//
// The compressed artifact is self-describing: it begins with a header that
// lists every symbol and its count, so the decompressor can rebuild the exact
// same tree.  Tree construction breaks weight ties by node creation order,
// which makes the tree shape a pure function of the frequency table.
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
package hufzip
