package object

// Kind identifies what an entity is.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemy
	KindProjectile
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindProjectile:
		return "projectile"
	default:
		return "unknown"
	}
}

// Category is a contact bitmask tag.
type Category uint32

const (
	CategoryProjectile Category = 1 << 0
	CategoryEnemy      Category = 1 << 1
	CategoryPlayer     Category = 1 << 2
)

// contactMask lists, per category, the categories it reports contacts with.
var contactMask = map[Category]Category{
	CategoryProjectile: CategoryEnemy,
	CategoryEnemy:      CategoryProjectile | CategoryPlayer,
	CategoryPlayer:     CategoryEnemy,
}

// CategoryOf returns the contact category for a kind.
func CategoryOf(k Kind) Category {
	switch k {
	case KindPlayer:
		return CategoryPlayer
	case KindEnemy:
		return CategoryEnemy
	case KindProjectile:
		return CategoryProjectile
	default:
		return 0
	}
}

// Interacts reports whether overlapping entities of categories c and o
// produce a contact. Both sides must list each other in the contact table.
func (c Category) Interacts(o Category) bool {
	return contactMask[c]&o != 0 && contactMask[o]&c != 0
}

// Contacts reports whether entities of kinds a and b interact on overlap.
func Contacts(a, b Kind) bool {
	return CategoryOf(a).Interacts(CategoryOf(b))
}

// Variant is the visual flavour of an enemy.
type Variant int

const (
	VariantA Variant = iota
	VariantB
	VariantC
)

// Variants is the closed set of enemy variants, in table order.
var Variants = []Variant{VariantA, VariantB, VariantC}

func (v Variant) String() string {
	switch v {
	case VariantA:
		return "alien"
	case VariantB:
		return "alien2"
	case VariantC:
		return "alien3"
	default:
		return "unknown"
	}
}

// Reason explains why an entity left the registry.
type Reason int

const (
	ReasonExpired Reason = iota
	ReasonCollided
	ReasonLeftBounds
)

func (r Reason) String() string {
	switch r {
	case ReasonExpired:
		return "expired"
	case ReasonCollided:
		return "collided"
	case ReasonLeftBounds:
		return "left-bounds"
	default:
		return "unknown"
	}
}
