package components

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/origadmin/structconv/internal/analyzer"
	"github.com/origadmin/structconv/internal/model"
	"github.com/origadmin/structconv/internal/typetest"
)

const convPath = "example.com/conv"

const convSource = `package conv

import (
	"time"

	"cloud.google.com/go/civil"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type Address struct {
	Street string
	City   string
}

type Inner struct {
	Street string
	City   string
}

type Source struct {
	Name    string
	Age     int
	Tags    []string
	Labels  map[string]string
	Home    *Address
	Addrs   []Address
	ByName  map[string]*Address
	Fixed   [3]int
	Window  [2]int
	Flags   []int
	Created time.Time
	Updated *timestamppb.Timestamp
	Born    civil.DateTime
	TTL     time.Duration
	Timeout *durationpb.Duration
	Stamps  []time.Time
	Keyed   map[int]string
	Token   string ` + "`structconv:\"writeonly\"`" + `
	ID      int
	Extra   string
}

type Target struct {
	NAME    string
	Age     int
	Tags    []string
	Labels  map[string]string
	Home    *Inner
	Addrs   []*Inner
	ByName  map[string]Inner
	Fixed   []int
	Window  [4]int
	Flags   [2]int
	Created civil.DateTime
	Updated time.Time
	Born    *timestamppb.Timestamp
	TTL     *durationpb.Duration
	Timeout time.Duration
	Stamps  []*timestamppb.Timestamp
	Keyed   map[string]string
	Token   string
	ID      int ` + "`structconv:\"readonly\"`" + `
	Missing string
}

type ChainA struct {
	Name string
	Next *ChainB
}

type ChainB struct {
	Name string
	Next *ChainA
}

type ChainC struct {
	Name string
	Next *ChainD
}

type ChainD struct {
	Name string
	Next *ChainC
}

type Node struct {
	Name     string
	Parent   *Node
	Children []*Node
}

type NodeDTO struct {
	Name     string
	Parent   *NodeDTO
	Children []*NodeDTO
}
`

type fixture struct {
	u      *typetest.Universe
	pkg    *packages.Package
	reader *analyzer.SchemaReader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	u := typetest.New()
	pkg, err := u.Check(convPath, map[string]string{"conv.go": convSource})
	require.NoError(t, err)
	return &fixture{u: u, pkg: pkg, reader: analyzer.NewSchemaReader()}
}

// ptr returns the schema of *name.
func (f *fixture) ptr(name string) *model.TypeSchema {
	return f.reader.Schema(types.NewPointer(f.u.Lookup(convPath, name)))
}

func (f *fixture) formatter() *TypeFormatter {
	return NewTypeFormatter(NewImportManager(f.pkg.Types))
}

// typeCheck checks generated against the fixture as one package.
func typeCheck(t *testing.T, generated string) {
	t.Helper()
	u := typetest.New()
	_, err := u.Check(convPath, map[string]string{
		"conv.go":           convSource,
		"conv.generated.go": generated,
	})
	require.NoError(t, err, generated)
}
