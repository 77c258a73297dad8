// Package storage keeps CV documents in object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go-profile-backend/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const cvContentType = "text/plain; charset=utf-8"

// ObjectStore is the subset of *s3.Client used by CVStore.
type ObjectStore interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// CVStore implements domain.CVTextProducer and domain.CVDocumentStore. CVs
// are stored as extracted plain text; turning uploads into text happens
// before they reach the bucket.
type CVStore struct {
	client ObjectStore
	bucket string
}

func NewCVStore(client ObjectStore, bucket string) *CVStore {
	return &CVStore{client: client, bucket: bucket}
}

// CVKey returns the object key of a profile's CV. An explicit key on the
// profile wins over cv/<username>.txt, profiles without a username fall
// back to cv/<id>.txt.
func CVKey(profile *domain.ProfileSnapshot) string {
	if profile.CVKey != "" {
		return profile.CVKey
	}
	if profile.Username != "" {
		return fmt.Sprintf("cv/%s.txt", profile.Username)
	}
	return fmt.Sprintf("cv/%s.txt", profile.ID)
}

func (s *CVStore) GetCVText(ctx context.Context, profile *domain.ProfileSnapshot) (string, error) {
	if profile == nil {
		return "", domain.ErrCVNotFound
	}

	key := CVKey(profile)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return "", fmt.Errorf("%s: %w", key, domain.ErrCVNotFound)
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(io.LimitReader(out.Body, domain.MaxCVTextBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return strings.ToValidUTF8(string(body), ""), nil
}

func (s *CVStore) PutCVText(ctx context.Context, profile *domain.ProfileSnapshot, text string) (string, error) {
	if len(text) > domain.MaxCVTextBytes {
		return "", fmt.Errorf("cv is %d bytes, limit is %d", len(text), domain.MaxCVTextBytes)
	}

	key := CVKey(profile)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          strings.NewReader(text),
		ContentLength: aws.Int64(int64(len(text))),
		ContentType:   aws.String(cvContentType),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

// DeleteCV removes the profile's CV. Deleting a missing object succeeds.
func (s *CVStore) DeleteCV(ctx context.Context, profile *domain.ProfileSnapshot) error {
	key := CVKey(profile)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
