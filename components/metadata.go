package components

// String returns the display name for a Kind.
func (k Kind) String() string {
	names := KindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// KindNames returns the display names for all agent kinds.
// The order matches the Kind constants.
func KindNames() []string {
	return []string{"Player", "EnemyShip", "Flagship", "Shark", "Siren", "Fort", "FortBoss"}
}

// String returns the display name for a Category.
func (c Category) String() string {
	switch c {
	case CategoryLand:
		return "Land"
	case CategoryWater:
		return "Water"
	case CategoryMaritime:
		return "Maritime"
	}
	return "Unknown"
}

// Hostile reports whether the kind attacks the player.
func (k Kind) Hostile() bool {
	return k != KindPlayer
}
