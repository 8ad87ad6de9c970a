package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vanzari-imobiliare/api/internal/config"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestReadImage(t *testing.T) {
	img, err := ReadImage(bytes.NewReader(pngHeader), 1024)
	if err != nil {
		t.Fatal(err)
	}
	if img.ContentType != "image/png" || img.Ext != ".png" || img.Size() != int64(len(pngHeader)) {
		t.Fatalf("img = %+v", img)
	}

	if _, err := ReadImage(bytes.NewReader([]byte("%PDF-1.4 hello")), 1024); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("pdf: err = %v", err)
	}
	if _, err := ReadImage(bytes.NewReader(pngHeader), 4); !errors.Is(err, ErrTooLarge) {
		t.Errorf("oversize: err = %v", err)
	}
}

func TestS3StoreUploadDelete(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	store := newS3Store(fake, config.StorageConfig{Region: "eu-central-1", Bucket: "plans"})

	url, err := store.Upload(context.Background(), "plans/1/a.png", "image/png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://plans.s3.eu-central-1.amazonaws.com/plans/1/a.png" {
		t.Fatalf("url = %s", url)
	}
	if fake.types["plans/1/a.png"] != "image/png" {
		t.Errorf("content type = %q", fake.types["plans/1/a.png"])
	}

	if err := store.Delete(context.Background(), url); err != nil {
		t.Fatal(err)
	}
	if len(fake.objects) != 0 {
		t.Errorf("objects left: %d", len(fake.objects))
	}
	if err := store.Delete(context.Background(), "https://elsewhere.test/x.png"); !IsForeign(err) {
		t.Errorf("foreign delete err = %v", err)
	}
}

func TestS3StorePublicBaseURL(t *testing.T) {
	store := newS3Store(&fakeS3{objects: map[string][]byte{}, types: map[string]string{}},
		config.StorageConfig{Bucket: "plans", PublicBaseURL: "https://cdn.example.com/"})
	url, err := store.Upload(context.Background(), "k.png", "image/png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://cdn.example.com/k.png" {
		t.Fatalf("url = %s", url)
	}
}
