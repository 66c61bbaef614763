// Package splitter partitions a CSV file into numbered part files.
//
// Every part repeats the source header and holds a contiguous run of records,
// so concatenating the parts in order reproduces the source. The source is
// read twice: once to count records, then once to stream them into parts.
//
// With N requested parts, each part holds ceil(total/N) records and the last
// one takes the remainder. Fewer than N parts are written when the records
// run out first (9 records into 4 parts gives 3, 3, 3). Records beyond N full
// parts are appended to part N instead of opening part N+1; with the ceiling
// division this cannot happen unless the source grows between passes.
//
// A source with a header and no records yields a single header-only part.
// Part files written before a failure are left in place.
package splitter
