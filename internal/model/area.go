package model

// Area is a physical zone of the restaurant grouping one or more tables,
// such as the ground floor dining room or the terrace.  Areas are seeded
// at startup and never change at runtime, so they can be read without
// any locking.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name shown to operators.
//  Level     – floor level ordinal (1 = ground floor, 2 = upstairs).
//  IsOutdoor – whether the area is open air.
type Area struct {
	ID        uint64 `json:"id"`         // areas.id
	Name      string `json:"name"`       // areas.name
	Level     int    `json:"level"`      // areas.level
	IsOutdoor bool   `json:"is_outdoor"` // areas.is_outdoor
}
