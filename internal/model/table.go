package model

// Table is a bookable seating resource belonging to exactly one Area.
// Like areas, tables are immutable reference data seeded at startup.
//
// Fields:
//  ID       – primary key identifier.
//  Name     – display name (e.g. "G1").
//  Capacity – number of guests the table seats; always positive.
//  AreaID   – owning area.
type Table struct {
	ID       uint64 `json:"id"`       // tables.id
	Name     string `json:"name"`     // tables.name
	Capacity int    `json:"capacity"` // tables.capacity
	AreaID   uint64 `json:"area_id"`  // tables.area_id
}
