package model

// Preferences is the persisted settings record. Field values always resolve
// to a valid enum member; Normalized repairs anything else.
type Preferences struct {
	Theme ThemeMode `json:"theme"`
	Sort  SortMode  `json:"sort"`
}

func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeTime, Sort: SortAdded}
}

// Normalized returns a copy with invalid fields replaced by defaults.
func (p Preferences) Normalized() Preferences {
	if !p.Theme.IsValid() {
		p.Theme = ThemeTime
	}
	if !p.Sort.IsValid() {
		p.Sort = SortAdded
	}
	return p
}
