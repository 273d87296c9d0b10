package roundtrip

import (
	"fmt"
	"strconv"

	verskema "github.com/reoring/verskema"
)

// PetTypeName is the logical record type shared by both pet revisions.
const PetTypeName = "pet"

// PetV1 is revision 100 of the pet record.
type PetV1 struct {
	Cat int
	Dog float64
}

func (p PetV1) String() string {
	return fmt.Sprintf("{cat=%d, dog=%s}", p.Cat, formatFloat(p.Dog))
}

// PetV2 is revision 110: it adds Foo, which defaults to "default".
type PetV2 struct {
	Cat int
	Dog float64
	Foo string
}

func (p PetV2) String() string {
	return fmt.Sprintf("{cat=%d, dog=%s, foo=%q}", p.Cat, formatFloat(p.Dog), p.Foo)
}

// NewPetV2 returns a PetV2 with its defaults applied.
func NewPetV2() PetV2 { return PetV2{Foo: "default"} }

// PetV1Adapter and PetV2Adapter return the adapters of both revisions.
func PetV1Adapter() *verskema.Adapter[PetV1] {
	return verskema.MustAdapter(PetTypeName, 100, nil,
		verskema.Int("cat", func(p *PetV1) *int { return &p.Cat }).Since(100),
		verskema.Float("dog", func(p *PetV1) *float64 { return &p.Dog }).Since(100),
	)
}

func PetV2Adapter() *verskema.Adapter[PetV2] {
	return verskema.MustAdapter(PetTypeName, 110, NewPetV2,
		verskema.Int("cat", func(p *PetV2) *int { return &p.Cat }).Since(100),
		verskema.Float("dog", func(p *PetV2) *float64 { return &p.Dog }).Since(100),
		verskema.String("foo", func(p *PetV2) *string { return &p.Foo }).Since(110),
	)
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
