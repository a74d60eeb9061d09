package addrspace

import (
	"testing"

	"github.com/gopcua/opcua/ua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseNode_ReadAttribute_CommonSet(t *testing.T) {
	as := New()
	n, err := as.CreateNode(CreateNodeOptions{
		NodeID:     newID(7),
		NodeClass:  ua.NodeClassObject,
		BrowseName: ua.QualifiedName{Name: "Thing"},
	})
	require.NoError(t, err)

	dv := n.ReadAttribute(ua.AttributeIDBrowseName)
	require.Equal(t, ua.StatusOK, dv.Status)

	dv = n.ReadAttribute(ua.AttributeIDNodeClass)
	assert.Equal(t, ua.StatusOK, dv.Status)
	assert.EqualValues(t, ua.NodeClassObject, dv.Value.Int())

	dv = n.ReadAttribute(999999)
	assert.Equal(t, ua.StatusBadAttributeIDInvalid, dv.Status)
}

func TestVariableNode_ReadAttribute(t *testing.T) {
	as := New()
	value := dataValue(float64(3.5))
	n, err := as.CreateNode(CreateNodeOptions{
		NodeID:      newID(8),
		NodeClass:   ua.NodeClassVariable,
		BrowseName:  ua.QualifiedName{Name: "Temp"},
		Value:       value,
		DataType:    newID(11),
		ValueRank:   -1,
		AccessLevel: 1,
	})
	require.NoError(t, err)

	dv := n.ReadAttribute(ua.AttributeIDValue)
	assert.Equal(t, ua.StatusOK, dv.Status)
	assert.InDelta(t, 3.5, dv.Value.Float(), 0.0001)

	dv = n.ReadAttribute(ua.AttributeIDDataType)
	assert.EqualValues(t, 11, dv.Value.NodeID().IntID())

	dv = n.ReadAttribute(ua.AttributeIDAccessLevel)
	assert.EqualValues(t, 1, dv.Value.Uint())

	// unknown variable-specific attributes still fall back to base.
	dv = n.ReadAttribute(ua.AttributeIDDisplayName)
	assert.Equal(t, ua.StatusOK, dv.Status)
}

func TestVariableNode_ReadAttribute_NoValue(t *testing.T) {
	as := New()
	n, err := as.CreateNode(CreateNodeOptions{
		NodeID:     newID(9),
		NodeClass:  ua.NodeClassVariable,
		BrowseName: ua.QualifiedName{Name: "Unset"},
	})
	require.NoError(t, err)

	dv := n.ReadAttribute(ua.AttributeIDValue)
	assert.Equal(t, ua.StatusBadAttributeIDInvalid, dv.Status)
}

func TestMethodNode_ReadAttribute(t *testing.T) {
	as := New()
	n, err := as.CreateNode(CreateNodeOptions{
		NodeID:         newID(10),
		NodeClass:      ua.NodeClassMethod,
		BrowseName:     ua.QualifiedName{Name: "DoThing"},
		Executable:     true,
		UserExecutable: false,
	})
	require.NoError(t, err)

	dv := n.ReadAttribute(ua.AttributeIDExecutable)
	assert.Equal(t, true, dv.Value.Value())
	dv = n.ReadAttribute(ua.AttributeIDUserExecutable)
	assert.Equal(t, false, dv.Value.Value())
}

func TestReferenceTypeNode_ReadAttribute(t *testing.T) {
	as := New()
	n, err := as.CreateNode(CreateNodeOptions{
		NodeID:      newID(11),
		NodeClass:   ua.NodeClassReferenceType,
		BrowseName:  ua.QualifiedName{Name: "HasWidget"},
		InverseName: &ua.LocalizedText{Text: "WidgetOf"},
		Symmetric:   false,
	})
	require.NoError(t, err)

	dv := n.ReadAttribute(ua.AttributeIDInverseName)
	assert.Equal(t, ua.StatusOK, dv.Status)
	dv = n.ReadAttribute(ua.AttributeIDSymmetric)
	assert.Equal(t, false, dv.Value.Value())
}

func TestViewNode_ReadAttribute(t *testing.T) {
	as := New()
	n, err := as.CreateNode(CreateNodeOptions{
		NodeID:          newID(12),
		NodeClass:       ua.NodeClassView,
		BrowseName:      ua.QualifiedName{Name: "MyView"},
		ContainsNoLoops: true,
		EventNotifier:   0,
	})
	require.NoError(t, err)

	dv := n.ReadAttribute(ua.AttributeIDContainsNoLoops)
	assert.Equal(t, true, dv.Value.Value())
	dv = n.ReadAttribute(ua.AttributeIDEventNotifier)
	assert.EqualValues(t, 0, dv.Value.Value())
}
