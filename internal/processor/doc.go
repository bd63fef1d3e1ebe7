// Package processor wires the per-document pipeline together: text
// extraction, chunking, original storage, translation, translated storage,
// output writing, and archival. Failures local to one chunk never abort a
// document, and failures local to one document never abort a batch.
package processor
