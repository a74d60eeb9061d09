package addrspace

import (
	"fmt"
	"testing"

	"github.com/gopcua/opcua/id"
	"github.com/gopcua/opcua/ua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newID(i uint32) *ua.NodeID { return ua.NewNumericNodeID(0, i) }

// buildSmallSpace loads the reference types Organizes / OrganizedBy
// and HasComponent / ComponentOf plus a Root -> Objects -> MyVar chain, the
// same shape walked through in the browse-path translation scenarios.
func buildSmallSpace(t *testing.T) *AddressSpace {
	t.Helper()
	as := New()

	organizes, err := as.CreateNode(CreateNodeOptions{
		NodeID:      newID(id.Organizes),
		NodeClass:   ua.NodeClassReferenceType,
		BrowseName:  ua.QualifiedName{Name: "Organizes"},
		InverseName: &ua.LocalizedText{Text: "OrganizedBy"},
	})
	require.NoError(t, err)
	require.NotNil(t, organizes)

	hasChild, err := as.CreateNode(CreateNodeOptions{
		NodeID:      newID(id.HasComponent),
		NodeClass:   ua.NodeClassReferenceType,
		BrowseName:  ua.QualifiedName{Name: "HasComponent"},
		InverseName: &ua.LocalizedText{Text: "ComponentOf"},
	})
	require.NoError(t, err)
	require.NotNil(t, hasChild)

	root, err := as.CreateNode(CreateNodeOptions{
		NodeID:     newID(id.RootFolder),
		NodeClass:  ua.NodeClassObject,
		BrowseName: ua.QualifiedName{Name: "Root"},
	})
	require.NoError(t, err)

	objects, err := as.CreateNode(CreateNodeOptions{
		NodeID:     newID(85),
		NodeClass:  ua.NodeClassObject,
		BrowseName: ua.QualifiedName{Name: "Objects"},
	})
	require.NoError(t, err)

	myVar, err := as.CreateNode(CreateNodeOptions{
		NodeID:     newID(1000),
		NodeClass:  ua.NodeClassVariable,
		BrowseName: ua.QualifiedName{Name: "MyVar"},
		DataType:   newID(id.Double),
	})
	require.NoError(t, err)

	root.AddReference(&Reference{ReferenceType: "Organizes", NodeID: objects.NodeID(), IsForward: true})
	objects.AddReference(&Reference{ReferenceType: "Organizes", NodeID: root.NodeID(), IsForward: false})
	objects.AddReference(&Reference{ReferenceType: "HasComponent", NodeID: myVar.NodeID(), IsForward: true})
	myVar.AddReference(&Reference{ReferenceType: "HasComponent", NodeID: objects.NodeID(), IsForward: false})

	return as
}

func TestRegister_DuplicateNodeID(t *testing.T) {
	as := New()
	opts := CreateNodeOptions{NodeID: newID(1), NodeClass: ua.NodeClassObject, BrowseName: ua.QualifiedName{Name: "A"}}
	_, err := as.CreateNode(opts)
	require.NoError(t, err)

	_, err = as.CreateNode(opts)
	require.Error(t, err)
	var ce *ConstructionError
	assert.ErrorAs(t, err, &ce)
}

func TestRegister_EmptyBrowseName(t *testing.T) {
	as := New()
	_, err := as.CreateNode(CreateNodeOptions{NodeID: newID(1), NodeClass: ua.NodeClassObject})
	require.Error(t, err)
}

func TestRegister_UnknownNodeClass(t *testing.T) {
	as := New()
	_, err := as.CreateNode(CreateNodeOptions{NodeID: newID(1), NodeClass: ua.NodeClass(0), BrowseName: ua.QualifiedName{Name: "X"}})
	require.Error(t, err)
}

func TestRegister_ReferenceTypeRequiresInverseName(t *testing.T) {
	as := New()
	_, err := as.CreateNode(CreateNodeOptions{
		NodeID:     newID(1),
		NodeClass:  ua.NodeClassReferenceType,
		BrowseName: ua.QualifiedName{Name: "Foo"},
	})
	require.Error(t, err)
}

func TestFindDataType_SingleDefinition(t *testing.T) {
	as := New()
	_, err := as.CreateNode(CreateNodeOptions{
		NodeID:     newID(id.Double),
		NodeClass:  ua.NodeClassDataType,
		BrowseName: ua.QualifiedName{Name: "Double"},
	})
	require.NoError(t, err)

	dt, ok := as.FindDataType("Double")
	require.True(t, ok)
	assert.Equal(t, "Double", dt.BrowseNameString())

	_, ok = as.FindDataType("NoSuchType")
	assert.False(t, ok)
}

func TestResolveNodeID(t *testing.T) {
	as := New()
	as.Alias("RootFolder", newID(id.RootFolder))

	resolved, err := as.ResolveNodeID("RootFolder")
	require.NoError(t, err)
	assert.True(t, resolved.IntID() == id.RootFolder)

	resolved, err = as.ResolveNodeID("i=1000")
	require.NoError(t, err)
	assert.EqualValues(t, 1000, resolved.IntID())

	same := newID(42)
	resolved, err = as.ResolveNodeID(same)
	require.NoError(t, err)
	assert.Same(t, same, resolved)

	_, err = as.ResolveNodeID(42)
	assert.ErrorIs(t, err, ErrNodeIDInvalid)
}

func TestNormalizeReferenceType(t *testing.T) {
	as := buildSmallSpace(t)

	name, forward := as.NormalizeReferenceType("Organizes", nil)
	assert.Equal(t, "Organizes", name)
	assert.True(t, forward)

	trueVal := true
	name, forward = as.NormalizeReferenceType("OrganizedBy", &trueVal)
	assert.Equal(t, "Organizes", name)
	assert.False(t, forward)

	// idempotent: normalizing an already-normalized result is a no-op.
	name2, forward2 := as.NormalizeReferenceType(name, &forward)
	assert.Equal(t, name, name2)
	assert.Equal(t, forward, forward2)

	name, forward = as.NormalizeReferenceType("NoSuchType", nil)
	assert.Equal(t, "NoSuchType", name)
	assert.True(t, forward)
}

func TestInverseReferenceType(t *testing.T) {
	as := buildSmallSpace(t)

	inverse, ok := as.InverseReferenceType("Organizes")
	require.True(t, ok)
	assert.Equal(t, "OrganizedBy", inverse)

	forward, ok := as.InverseReferenceType("OrganizedBy")
	require.True(t, ok)
	assert.Equal(t, "Organizes", forward)

	_, ok = as.InverseReferenceType("NoSuchType")
	assert.False(t, ok)
}

func TestFindReferenceType_ByNodeID(t *testing.T) {
	as := buildSmallSpace(t)

	rt, ok := as.FindReferenceType(fmt.Sprintf("i=%d", id.Organizes))
	require.True(t, ok)
	assert.Equal(t, "Organizes", rt.BrowseNameString())

	rt, ok = as.FindReferenceType("Organizes")
	require.True(t, ok)
	assert.Equal(t, "Organizes", rt.BrowseNameString())
}
