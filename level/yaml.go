package level

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tile glyphs used in the rows of a level file.
const (
	glyphEmpty  = '.'
	glyphGround = '='
	glyphBlock  = '#'
	glyphLava   = '~'
	glyphBounce = '^'
	glyphTurret = 'T'
	glyphStart  = 'S'
	glyphFinish = 'F'
)

// YAMLLevel is the on-disk form of a level.
type YAMLLevel struct {
	Name    string       `yaml:"name"`
	Rows    []string     `yaml:"rows"`
	Turrets []YAMLTurret `yaml:"turrets,omitempty"`
}

// YAMLTurret sets the firing direction of the turret at (x, y).
type YAMLTurret struct {
	X   int    `yaml:"x"`
	Y   int    `yaml:"y"`
	Dir string `yaml:"dir"`
}

// Level is a named grid.
type Level struct {
	Name string
	Grid *Grid
}

// Load reads and parses a level file.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: reading %s: %w", path, err)
	}
	lv, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level: parsing %s: %w", path, err)
	}
	return lv, nil
}

// Parse decodes a YAML level. Rows shorter than the widest row are padded
// with empty cells.
func Parse(data []byte) (*Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return FromRows(yl.Name, yl.Rows, yl.Turrets)
}

// FromRows builds a level from glyph rows and a turret table.
func FromRows(name string, rows []string, turrets []YAMLTurret) (*Level, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("level has no rows")
	}
	width := 0
	for _, r := range rows {
		if n := len([]rune(r)); n > width {
			width = n
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("level rows are empty")
	}

	g := NewGrid(width, len(rows))
	for y, r := range rows {
		for x, ch := range []rune(r) {
			k, ok := kindForGlyph(ch)
			if !ok {
				return nil, fmt.Errorf("row %d col %d: unknown glyph %q", y, x, ch)
			}
			g.Set(x, y, k)
		}
	}
	for _, t := range turrets {
		if g.At(t.X, t.Y) != Turret || !g.InBounds(t.X, t.Y) {
			return nil, fmt.Errorf("turret entry (%d,%d) is not on a turret tile", t.X, t.Y)
		}
		dir, err := ParseDirection(t.Dir)
		if err != nil {
			return nil, err
		}
		g.SetTurret(t.X, t.Y, dir)
	}
	return &Level{Name: name, Grid: g}, nil
}

// Encode renders a level back into its YAML form.
func Encode(lv *Level) ([]byte, error) {
	data, err := yaml.Marshal(toYAML(lv))
	if err != nil {
		return nil, fmt.Errorf("level: marshaling: %w", err)
	}
	return data, nil
}

// Hash returns a stable content key for the grid (name excluded), used to
// look up stored solutions.
func Hash(g *Grid) string {
	h := sha256.New()
	for _, r := range Rows(g) {
		h.Write([]byte(r))
		h.Write([]byte{'\n'})
	}
	for _, t := range g.Turrets() {
		fmt.Fprintf(h, "%d,%d,%s\n", t.Cell.X, t.Cell.Y, t.Dir)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Rows renders the grid as glyph strings.
func Rows(g *Grid) []string {
	rows := make([]string, g.Height())
	var sb strings.Builder
	for y := 0; y < g.Height(); y++ {
		sb.Reset()
		for x := 0; x < g.Width(); x++ {
			sb.WriteRune(glyphForKind(g.At(x, y)))
		}
		rows[y] = sb.String()
	}
	return rows
}

func toYAML(lv *Level) YAMLLevel {
	yl := YAMLLevel{Name: lv.Name, Rows: Rows(lv.Grid)}
	for _, t := range lv.Grid.Turrets() {
		yl.Turrets = append(yl.Turrets, YAMLTurret{X: t.Cell.X, Y: t.Cell.Y, Dir: t.Dir.String()})
	}
	return yl
}

func kindForGlyph(ch rune) (TileKind, bool) {
	switch ch {
	case glyphEmpty, ' ':
		return Empty, true
	case glyphGround:
		return Ground, true
	case glyphBlock:
		return Block, true
	case glyphLava:
		return Lava, true
	case glyphBounce:
		return Bounce, true
	case glyphTurret:
		return Turret, true
	case glyphStart:
		return Start, true
	case glyphFinish:
		return Finish, true
	}
	return Empty, false
}

func glyphForKind(k TileKind) rune {
	switch k {
	case Ground:
		return glyphGround
	case Block:
		return glyphBlock
	case Lava:
		return glyphLava
	case Bounce:
		return glyphBounce
	case Turret:
		return glyphTurret
	case Start:
		return glyphStart
	case Finish:
		return glyphFinish
	default:
		return glyphEmpty
	}
}
