package generator

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/origadmin/structconv/internal/analyzer"
	"github.com/origadmin/structconv/internal/config"
)

func requireGo(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("runs the go command")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}
}

func TestIntegration_Basic(t *testing.T) {
	requireGo(t)

	cfg := config.NewConfig()
	pkgs, err := analyzer.Load(context.Background(), cfg, filepath.Join("..", "..", "testdata", "basic"), ".")
	require.NoError(t, err)

	files, err := New(cfg, nil).Generate(context.Background(), pkgs)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "membership.generated.go", filepath.Base(files[0].Path))
	assert.Equal(t, "user.generated.go", filepath.Base(files[1].Path))

	membership := string(files[0].Content)
	assert.Contains(t, membership, "func (item *Membership) ConvertToRole() *Role {")
	assert.Contains(t, membership, "func ConvertMembershipListToRole(items []*Membership) []*Role {")

	user := string(files[1].Content)
	for _, fragment := range []string{
		"\t\"github.com/origadmin/structconv/testdata/fixtures/pb\"\n",
		"func ConvertUserFromPbUser(item *pb.User) *User {",
		"func (item *User) ConvertToPbUser() *pb.User {",
		"r.CreatedAt = item.CreatedAt.AsTime()",
		"r.CreatedAt = timestamppb.New(item.CreatedAt)",
		"r.Session = item.Session.AsDuration()",
		"r.Session = durationpb.New(item.Session)",
	} {
		assert.Contains(t, user, fragment)
	}
	assert.NotContains(t, user, "Password")
}
