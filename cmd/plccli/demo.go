package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gopcua/opcua/id"
	"github.com/gopcua/opcua/ua"
	"github.com/octanis-instruments/opcua-core/internal/addrspace"
	"github.com/octanis-instruments/opcua-core/internal/browsepath"
	"github.com/octanis-instruments/opcua-core/internal/publish"
)

// runSpaceCommand builds the small demo address space (Root ->
// Objects -> MyVar, via Organizes then HasComponent) and translates a
// browse path against it, the same shape as the walkthrough this
// package's algorithm is grounded on.
func runSpaceCommand(args []string) {
	if len(args) < 2 || args[0] != "translate" {
		fmt.Println("Usage: plccli space translate <browse-path>")
		os.Exit(1)
	}

	as, root := buildDemoAddressSpace()
	nodeID, ok := browsepath.SimpleBrowsePath(as, root, args[1])
	if !ok {
		fmt.Printf("no match for path %q\n", args[1])
		os.Exit(1)
	}
	fmt.Println(nodeID.String())
}

func buildDemoAddressSpace() (*addrspace.AddressSpace, *ua.NodeID) {
	as := addrspace.New()

	as.MustCreateNode(addrspace.CreateNodeOptions{
		NodeID:      ua.NewNumericNodeID(0, id.Organizes),
		NodeClass:   ua.NodeClassReferenceType,
		BrowseName:  ua.QualifiedName{Name: "Organizes"},
		InverseName: &ua.LocalizedText{Text: "OrganizedBy"},
	})
	as.MustCreateNode(addrspace.CreateNodeOptions{
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
		NodeID:      ua.NewNumericNodeID(2, 1000),
		NodeClass:   ua.NodeClassVariable,
		BrowseName:  ua.QualifiedName{NamespaceIndex: 2, Name: "MyVar"},
		Value:       mustDataValue(21.5),
		DataType:    ua.NewNumericNodeID(0, id.Double),
		AccessLevel: 1,
	})

	root.AddReference(&addrspace.Reference{ReferenceType: "Organizes", NodeID: objects.NodeID(), IsForward: true})
	objects.AddReference(&addrspace.Reference{ReferenceType: "Organizes", NodeID: root.NodeID(), IsForward: false})
	objects.AddReference(&addrspace.Reference{ReferenceType: "HasComponent", NodeID: myVar.NodeID(), IsForward: true})
	myVar.AddReference(&addrspace.Reference{ReferenceType: "HasComponent", NodeID: objects.NodeID(), IsForward: false})

	return as, root.NodeID()
}

func mustDataValue(v float64) *ua.DataValue {
	variant, err := ua.NewVariant(v)
	if err != nil {
		panic(err)
	}
	return &ua.DataValue{EncodingMask: ua.DataValueValue | ua.DataValueStatusCode, Value: variant, Status: ua.StatusOK}
}

// demoSession is an in-memory publish.Session standing in for a live
// subscription: it answers each PublishRequest with one data-change
// notification and otherwise stalls, letting the pipeline's own
// refill logic keep issuing requests exactly as it would against a
// real server.
type demoSession struct {
	subscriptionID uint32
	sequenceNumber uint32
}

func (s *demoSession) Publish(ctx context.Context, req *ua.PublishRequest, callback func(*ua.PublishResponse, error)) {
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(500 * time.Millisecond):
		}
		s.sequenceNumber++
		callback(&ua.PublishResponse{
			SubscriptionID: s.subscriptionID,
			NotificationMessage: &ua.NotificationMessage{
				SequenceNumber:   s.sequenceNumber,
				PublishTime:      time.Now(),
				NotificationData: []*ua.ExtensionObject{{}},
			},
		}, nil)
	}()
}

// runPublishCommand drives a publish.Engine against demoSession until
// five notifications have arrived, printing each one as it arrives.
func runPublishCommand(args []string) {
	if len(args) < 1 || args[0] != "demo" {
		fmt.Println("Usage: plccli publish demo")
		os.Exit(1)
	}

	session := &demoSession{subscriptionID: 1}
	engine := publish.NewEngine(session)

	done := make(chan struct{})
	count := 0
	err := engine.RegisterSubscriptionCallback(1, 2000, func(notificationData []*ua.ExtensionObject, publishTime time.Time) {
		count++
		fmt.Printf("[%s] subscription 1 notification #%d (%d items)\n", publishTime.Format(time.RFC3339), count, len(notificationData))
		if count >= 5 {
			close(done)
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	<-done
	engine.Terminate()
}
