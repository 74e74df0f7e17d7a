package model

// Theme represents a bookable escape-room theme as stored in the
// `themes` table.
//
// Fields:
//  ID   – primary key identifier.
//  Name – human readable theme name.
type Theme struct {
	ID   uint64 // themes.id
	Name string // themes.name
}

// TimeSlot represents a reservable start time as stored in the
// `time_slots` table. Times are stored as "HH:MM" strings; the
// service never does arithmetic on them.
//
// Fields:
//  ID      – primary key identifier.
//  StartAt – start time of the slot, e.g. "10:00".
type TimeSlot struct {
	ID      uint64 // time_slots.id
	StartAt string // time_slots.start_at
}

// SlotKey identifies one reservable slot: a calendar date combined
// with a time slot and a theme. It is a value type used as a map key,
// so all fields are comparable and the struct is never mutated after
// construction. A slot exists independently of any booking on it.
type SlotKey struct {
	Date    string // booking date in YYYY-MM-DD form
	TimeID  uint64 // references time_slots.id
	ThemeID uint64 // references themes.id
}
