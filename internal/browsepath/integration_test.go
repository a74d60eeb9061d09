package browsepath_test

import (
	"testing"

	"github.com/gopcua/opcua/id"
	"github.com/gopcua/opcua/ua"
	"github.com/octanis-instruments/opcua-core/internal/addrspace"
	"github.com/octanis-instruments/opcua-core/internal/browsepath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises scenario 1 from the walkthrough this package's algorithm
// is grounded on: Root -> Objects -> MyVar via Organizes then
// HasComponent, using the real AddressSpace as the Resolver.
func TestTranslateBrowsePath_AgainstRealAddressSpace(t *testing.T) {
	as := addrspace.New()

	organizes := as.MustCreateNode(addrspace.CreateNodeOptions{
		NodeID:      ua.NewNumericNodeID(0, id.Organizes),
		NodeClass:   ua.NodeClassReferenceType,
		BrowseName:  ua.QualifiedName{Name: "Organizes"},
		InverseName: &ua.LocalizedText{Text: "OrganizedBy"},
	})
	hasComponent := as.MustCreateNode(addrspace.CreateNodeOptions{
		NodeID:      ua.NewNumericNodeID(0, id.HasComponent),
		NodeClass:   ua.NodeClassReferenceType,
		BrowseName:  ua.QualifiedName{Name: "HasComponent"},
		InverseName: &ua.LocalizedText{Text: "ComponentOf"},
	})

	root := as.MustCreateNode(addrspace.CreateNodeOptions{
		NodeID:     ua.NewNumericNodeID(0, id.RootFolder),
		NodeClass:  ua.NodeClassObject,
		BrowseName: ua.QualifiedName{Name: "Root"},
	})
	objects := as.MustCreateNode(addrspace.CreateNodeOptions{
		NodeID:     ua.NewNumericNodeID(0, 85),
		NodeClass:  ua.NodeClassObject,
		BrowseName: ua.QualifiedName{Name: "Objects"},
	})
	myVar := as.MustCreateNode(addrspace.CreateNodeOptions{
		NodeID:     ua.NewNumericNodeID(0, 1000),
		NodeClass:  ua.NodeClassVariable,
		BrowseName: ua.QualifiedName{Name: "MyVar"},
		DataType:   ua.NewNumericNodeID(0, id.Double),
	})

	root.AddReference(&addrspace.Reference{ReferenceType: "Organizes", NodeID: objects.NodeID(), IsForward: true})
	objects.AddReference(&addrspace.Reference{ReferenceType: "Organizes", NodeID: root.NodeID(), IsForward: false})
	objects.AddReference(&addrspace.Reference{ReferenceType: "HasComponent", NodeID: myVar.NodeID(), IsForward: true})
	myVar.AddReference(&addrspace.Reference{ReferenceType: "HasComponent", NodeID: objects.NodeID(), IsForward: false})

	bp := &ua.BrowsePath{
		NodeID: root.NodeID(),
		RelativePath: &ua.RelativePath{Elements: []*ua.RelativePathElement{
			{ReferenceTypeID: organizes.NodeID(), TargetName: &ua.QualifiedName{Name: "Objects"}},
			{ReferenceTypeID: hasComponent.NodeID(), TargetName: &ua.QualifiedName{Name: "MyVar"}},
		}},
	}

	result := browsepath.TranslateBrowsePath(as, bp)
	require.Equal(t, ua.StatusOK, result.StatusCode)
	require.Len(t, result.Targets, 1)
	assert.Equal(t, myVar.NodeID().String(), result.Targets[0].TargetID.NodeID.String())

	nodeID, ok := browsepath.SimpleBrowsePath(as, nil, "/Objects.MyVar")
	require.True(t, ok)
	assert.Equal(t, myVar.NodeID().String(), nodeID.String())
}
