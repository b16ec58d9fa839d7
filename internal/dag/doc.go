// Package dag holds the dependency graph of a build: task records and the
// edge index that says which files are still waiting to be produced.
//
// The edge index maps every output file to the inputs its producing task
// consumes. An output present as a key in the index has not been produced
// yet; once its task is removed the key disappears and every task consuming
// that file may become executable. All structural mutation and the
// leaf-selection scan are serialized by a single mutex so completion
// callbacks running on worker goroutines can update the graph while the
// scheduler loop queries it.
package dag
