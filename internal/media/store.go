// Package media wraps the GridFS bucket used as the remote media host.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wavegram/backend/internal/apperrors"
)

const opTimeout = 15 * time.Second

// Object describes a stored media object.
type Object struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UploadedBy  uint      `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Store is the object-store surface used by handlers and the cleanup job.
type Store interface {
	Upload(ctx context.Context, filename, contentType string, uploaderID uint, content io.Reader) (*Object, error)
	Open(ctx context.Context, id string) (io.ReadCloser, *Object, error)
	Delete(ctx context.Context, id string) error
}

// GridFSStore implements Store on a Mongo GridFS bucket.
type GridFSStore struct {
	bucket *gridfs.Bucket
}

func NewGridFSStore(bucket *gridfs.Bucket) *GridFSStore {
	return &GridFSStore{bucket: bucket}
}

func (s *GridFSStore) Upload(ctx context.Context, filename, contentType string, uploaderID uint, content io.Reader) (*Object, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	metadata := bson.M{
		"content_type": contentType,
		"uploaded_by":  uploaderID,
		"uploaded_at":  time.Now(),
	}

	// Stored name is opaque; the original filename only survives in the
	// object record returned to the caller.
	storedName := uuid.NewString()
	opts := options.GridFSUpload().SetMetadata(metadata)
	stream, err := s.bucket.OpenUploadStreamWithID(primitive.NewObjectID(), storedName, opts)
	if err != nil {
		return nil, fmt.Errorf("opening upload stream: %w", err)
	}
	stream.SetWriteDeadline(time.Now().Add(opTimeout))

	size, err := io.Copy(stream, content)
	if err != nil {
		_ = stream.Abort()
		return nil, fmt.Errorf("writing media object: %w", err)
	}
	if err := stream.Close(); err != nil {
		return nil, fmt.Errorf("closing upload stream: %w", err)
	}

	return &Object{
		ID:          stream.FileID.(primitive.ObjectID).Hex(),
		Filename:    filename,
		Size:        size,
		ContentType: contentType,
		UploadedBy:  uploaderID,
		UploadedAt:  time.Now(),
	}, nil
}

func (s *GridFSStore) Open(ctx context.Context, id string) (io.ReadCloser, *Object, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, apperrors.Validation("invalid media id")
	}

	stream, err := s.bucket.OpenDownloadStream(objectID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, apperrors.NotFound("media not found")
		}
		return nil, nil, fmt.Errorf("opening download stream: %w", err)
	}
	stream.SetReadDeadline(time.Now().Add(opTimeout))

	fileInfo := stream.GetFile()
	var metadata bson.M
	if fileInfo.Metadata != nil {
		_ = bson.Unmarshal(fileInfo.Metadata, &metadata)
	}

	obj := &Object{
		ID:          id,
		Filename:    fileInfo.Name,
		Size:        fileInfo.Length,
		ContentType: stringFromMeta(metadata, "content_type"),
		UploadedAt:  fileInfo.UploadDate,
	}
	return stream, obj, nil
}

// Delete removes the object. A missing object is treated as already deleted
// so cleanup retries stay idempotent.
func (s *GridFSStore) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.Validation("invalid media id")
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.bucket.DeleteContext(ctx, objectID); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		return fmt.Errorf("deleting media object: %w", err)
	}
	return nil
}

func stringFromMeta(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
