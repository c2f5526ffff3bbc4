package render

import (
	"fmt"

	"github.com/okian/loggraph/internal/domain/scoring"
)

// RGB is an sRGB colour.
type RGB struct{ R, G, B uint8 }

// Hex formats the colour as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Palette colours.
var (
	Background = RGB{24, 26, 32}
	Foreground = RGB{212, 190, 152}
	Damage     = RGB{90, 82, 76}
	Kill       = RGB{169, 182, 101}
	Headshot   = RGB{216, 166, 87} // backstab and reflect share it
	Airshot    = RGB{125, 174, 163}
	ShotHit    = RGB{105, 98, 92}
	MedicKill  = RGB{211, 134, 155}
	MedicDrop  = RGB{180, 65, 96}
	Heal       = RGB{137, 180, 130}
	Death      = RGB{234, 105, 98}
)

// Colour returns the segment colour for c.
func Colour(c scoring.Category) RGB {
	switch c {
	case scoring.CategoryDamage:
		return Damage
	case scoring.CategoryHeal:
		return Heal
	case scoring.CategoryHeadshot:
		return Headshot
	case scoring.CategoryAirshot:
		return Airshot
	case scoring.CategoryKill:
		return Kill
	case scoring.CategoryShotHit:
		return ShotHit
	case scoring.CategoryMedicKill:
		return MedicKill
	case scoring.CategoryMedicDrop:
		return MedicDrop
	case scoring.CategoryDeath:
		return Death
	default:
		return Foreground
	}
}

// legend lists key entries bottom to top.
var legend = []scoring.Category{ //nolint:gochecknoglobals // fixed legend order
	scoring.CategoryDamage,
	scoring.CategoryHeadshot,
	scoring.CategoryAirshot,
	scoring.CategoryKill,
	scoring.CategoryMedicKill,
	scoring.CategoryMedicDrop,
	scoring.CategoryDeath,
}
