package tables

// Auxiliary table geometry: 45 records of 46 8-byte entries. The field
// semantics are not reverse engineered, so the table is carried as an
// opaque byte block and reproduced bit-exact.
const (
	AuxRecordCount   = 45
	AuxEntriesPerRec = 46
	auxEntrySize     = 8

	AuxRecordSize = AuxEntriesPerRec * auxEntrySize
	AuxTableSize  = AuxRecordCount * AuxRecordSize
)
