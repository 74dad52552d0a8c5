package types

// Face names the six surfaces of the box domain. Compass faces follow the
// grid orientation: x west->east, y south->north, z ground->top.
type Face uint8

const (
	F_West Face = iota
	F_East
	F_South
	F_North
	F_Ground
	F_Top
)

var FaceNameMap = map[string]Face{
	"west":   F_West,
	"east":   F_East,
	"south":  F_South,
	"north":  F_North,
	"ground": F_Ground,
	"top":    F_Top,
}

func (f Face) String() string {
	switch f {
	case F_West:
		return "west"
	case F_East:
		return "east"
	case F_South:
		return "south"
	case F_North:
		return "north"
	case F_Ground:
		return "ground"
	default:
		return "top"
	}
}
