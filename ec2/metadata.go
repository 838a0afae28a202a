// Package ec2 builds the member metadata string from the EC2 instance
// metadata service.
package ec2

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"

	"github.com/akihiro17/kafka-ec2/model"
)

type identityClient interface {
	GetInstanceIdentityDocument(
		ctx context.Context,
		params *imds.GetInstanceIdentityDocumentInput,
		optFns ...func(*imds.Options),
	) (*imds.GetInstanceIdentityDocumentOutput, error)
}

// NewClient returns an IMDS client with default options.
func NewClient() *imds.Client {
	return imds.New(imds.Options{})
}

// MemberMetadata returns "instanceId,instanceType,availabilityZone" for the
// instance the process runs on.
func MemberMetadata(ctx context.Context, client identityClient) (string, error) {
	out, err := client.GetInstanceIdentityDocument(ctx, &imds.GetInstanceIdentityDocumentInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get instance identity document: %w", err)
	}
	doc := out.InstanceIdentityDocument
	if doc.InstanceID == "" || doc.InstanceType == "" || doc.AvailabilityZone == "" {
		return "", fmt.Errorf("incomplete instance identity document: %+v", doc)
	}
	return model.FormatMetadata(doc.InstanceID, doc.InstanceType, doc.AvailabilityZone), nil
}
