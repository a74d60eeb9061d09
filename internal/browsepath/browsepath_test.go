package browsepath

import (
	"fmt"
	"testing"

	"github.com/gopcua/opcua/ua"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver is a minimal in-memory graph satisfying Resolver,
// independent of internal/addrspace, for exercising the translation
// algorithm in isolation.
type fakeResolver struct {
	aliases map[string]*ua.NodeID
	// edges[nodeKey][refType] -> targets, keyed by forward direction only.
	edges  map[string]map[string][]*ua.NodeID
	names  map[string]*ua.QualifiedName
	exists map[string]bool
}

func key(id *ua.NodeID) string { return id.String() }

func (f *fakeResolver) ResolveNodeID(input interface{}) (*ua.NodeID, error) {
	switch v := input.(type) {
	case *ua.NodeID:
		return v, nil
	case string:
		if id, ok := f.aliases[v]; ok {
			return id, nil
		}
		return ua.ParseNodeID(v)
	default:
		return nil, fmt.Errorf("unsupported input %T", input)
	}
}

func (f *fakeResolver) BrowseNodeByTargetName(nodeID *ua.NodeID, element *ua.RelativePathElement) []*ua.NodeID {
	byType, ok := f.edges[key(nodeID)]
	if !ok {
		return nil
	}
	candidates := byType[key(element.ReferenceTypeID)]
	// The null NodeId (i=0), which ConstructBrowsePath emits, follows any
	// reference type, as the real AddressSpace does.
	if element.ReferenceTypeID.Namespace() == 0 && element.ReferenceTypeID.IntID() == 0 {
		candidates = nil
		for _, targets := range byType {
			candidates = append(candidates, targets...)
		}
	}
	var out []*ua.NodeID
	for _, c := range candidates {
		name := f.names[key(c)]
		if name != nil && name.Name == element.TargetName.Name && name.NamespaceIndex == element.TargetName.NamespaceIndex {
			out = append(out, c)
		}
	}
	return out
}

func newResolver() *fakeResolver {
	return &fakeResolver{
		aliases: make(map[string]*ua.NodeID),
		edges:   make(map[string]map[string][]*ua.NodeID),
		names:   make(map[string]*ua.QualifiedName),
		exists:  make(map[string]bool),
	}
}

func (f *fakeResolver) NodeExists(id *ua.NodeID) bool {
	return f.exists[key(id)]
}

func (f *fakeResolver) addEdge(from *ua.NodeID, refType *ua.NodeID, to *ua.NodeID, toName string) {
	if f.edges[key(from)] == nil {
		f.edges[key(from)] = make(map[string][]*ua.NodeID)
	}
	f.edges[key(from)][key(refType)] = append(f.edges[key(from)][key(refType)], to)
	f.names[key(to)] = &ua.QualifiedName{Name: toName}
	f.exists[key(from)] = true
	f.exists[key(to)] = true
}

func buildGraph() (*fakeResolver, *ua.NodeID, *ua.NodeID, *ua.NodeID) {
	r := newResolver()
	root := ua.NewNumericNodeID(0, 84)
	objects := ua.NewNumericNodeID(0, 85)
	myVar := ua.NewNumericNodeID(0, 1000)
	organizes := ua.NewNumericNodeID(0, 35)
	hasComponent := ua.NewNumericNodeID(0, 47)

	r.addEdge(root, organizes, objects, "Objects")
	r.addEdge(objects, hasComponent, myVar, "MyVar")
	return r, root, organizes, hasComponent
}

func TestTranslateBrowsePath_SingleHop(t *testing.T) {
	r, root, organizes, _ := buildGraph()

	bp := &ua.BrowsePath{
		NodeID: root,
		RelativePath: &ua.RelativePath{Elements: []*ua.RelativePathElement{
			{ReferenceTypeID: organizes, TargetName: &ua.QualifiedName{Name: "Objects"}},
		}},
	}
	result := TranslateBrowsePath(r, bp)
	require.Equal(t, ua.StatusOK, result.StatusCode)
	require.Len(t, result.Targets, 1)
	assert.EqualValues(t, 85, result.Targets[0].TargetID.NodeID.IntID())
	assert.EqualValues(t, RemainingPathIndexNone, result.Targets[0].RemainingPathIndex)
}

func TestTranslateBrowsePath_MultiHop(t *testing.T) {
	r, root, organizes, hasComponent := buildGraph()

	bp := &ua.BrowsePath{
		NodeID: root,
		RelativePath: &ua.RelativePath{Elements: []*ua.RelativePathElement{
			{ReferenceTypeID: organizes, TargetName: &ua.QualifiedName{Name: "Objects"}},
			{ReferenceTypeID: hasComponent, TargetName: &ua.QualifiedName{Name: "MyVar"}},
		}},
	}
	result := TranslateBrowsePath(r, bp)
	require.Equal(t, ua.StatusOK, result.StatusCode)
	require.Len(t, result.Targets, 1)
	assert.EqualValues(t, 1000, result.Targets[0].TargetID.NodeID.IntID())
}

func TestTranslateBrowsePath_NoMatch(t *testing.T) {
	r, root, organizes, _ := buildGraph()

	bp := &ua.BrowsePath{
		NodeID: root,
		RelativePath: &ua.RelativePath{Elements: []*ua.RelativePathElement{
			{ReferenceTypeID: organizes, TargetName: &ua.QualifiedName{Name: "NoSuchChild"}},
		}},
	}
	result := TranslateBrowsePath(r, bp)
	assert.Equal(t, ua.StatusBadNoMatch, result.StatusCode)
	assert.Empty(t, result.Targets)
}

func TestTranslateBrowsePath_EmptyRelativePath(t *testing.T) {
	r, root, _, _ := buildGraph()
	bp := &ua.BrowsePath{NodeID: root, RelativePath: &ua.RelativePath{}}
	result := TranslateBrowsePath(r, bp)
	assert.Equal(t, ua.StatusBadNothingToDo, result.StatusCode)
}

func TestTranslateBrowsePath_EmptyBrowseNameOnLastElement(t *testing.T) {
	r, root, organizes, _ := buildGraph()
	bp := &ua.BrowsePath{
		NodeID: root,
		RelativePath: &ua.RelativePath{Elements: []*ua.RelativePathElement{
			{ReferenceTypeID: organizes, TargetName: &ua.QualifiedName{Name: ""}},
		}},
	}
	result := TranslateBrowsePath(r, bp)
	assert.Equal(t, ua.StatusBadBrowseNameInvalid, result.StatusCode)
}

func TestTranslateBrowsePath_TooManyElements(t *testing.T) {
	r, root, organizes, _ := buildGraph()
	elements := make([]*ua.RelativePathElement, MaxPathDepth+1)
	for i := range elements {
		elements[i] = &ua.RelativePathElement{ReferenceTypeID: organizes, TargetName: &ua.QualifiedName{Name: "Objects"}}
	}
	bp := &ua.BrowsePath{NodeID: root, RelativePath: &ua.RelativePath{Elements: elements}}
	result := TranslateBrowsePath(r, bp)
	assert.Equal(t, ua.StatusBadTooManyMatches, result.StatusCode)
}

func TestTranslateBrowsePath_UnknownStartingNode(t *testing.T) {
	r := newResolver()
	bp := &ua.BrowsePath{
		NodeID: ua.NewNumericNodeID(0, 9999),
		RelativePath: &ua.RelativePath{Elements: []*ua.RelativePathElement{
			{ReferenceTypeID: ua.NewNumericNodeID(0, 35), TargetName: &ua.QualifiedName{Name: "X"}},
		}},
	}
	result := TranslateBrowsePath(r, bp)
	assert.Equal(t, ua.StatusBadNodeIDUnknown, result.StatusCode)
}

func TestConstructBrowsePath_Absolute(t *testing.T) {
	bp := ConstructBrowsePath(nil, "/Objects.MyVar")
	assert.EqualValues(t, 84, bp.NodeID.IntID())
	require.Len(t, bp.RelativePath.Elements, 2)
	assert.Equal(t, "Objects", bp.RelativePath.Elements[0].TargetName.Name)
	assert.Equal(t, "MyVar", bp.RelativePath.Elements[1].TargetName.Name)
}

func TestConstructBrowsePath_NamespacePrefix(t *testing.T) {
	start := ua.NewNumericNodeID(0, 85)
	bp := ConstructBrowsePath(start, "2:Sensors.3:Temperature")
	require.Len(t, bp.RelativePath.Elements, 2)
	assert.EqualValues(t, 2, bp.RelativePath.Elements[0].TargetName.NamespaceIndex)
	assert.Equal(t, "Sensors", bp.RelativePath.Elements[0].TargetName.Name)
	assert.EqualValues(t, 3, bp.RelativePath.Elements[1].TargetName.NamespaceIndex)
	assert.Equal(t, "Temperature", bp.RelativePath.Elements[1].TargetName.Name)
}

func TestSimpleBrowsePath(t *testing.T) {
	r, root, _, _ := buildGraph()
	nodeID, ok := SimpleBrowsePath(r, root, "/Objects")
	require.True(t, ok)
	assert.EqualValues(t, 85, nodeID.IntID())

	_, ok = SimpleBrowsePath(r, root, "/NoSuchChild")
	assert.False(t, ok)
}
