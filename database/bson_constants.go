package database

// Opérateurs MongoDB (évite les littéraux dupliqués)
const (
	BSONSet   = "$set"
	BSONNe    = "$ne"
	BSONOr    = "$or"
	BSONGte   = "$gte"
	BSONLt    = "$lt"
	BSONMatch = "$match"
	BSONGroup = "$group"
	BSONSum   = "$sum"
)
