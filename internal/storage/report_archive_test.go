package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"diet-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestUpload(t *testing.T) {
	fake := &fakeS3{}
	a := newReportArchive(fake, "diet-reports", "reports/daily")

	key, err := a.Upload(context.Background(), "2024-05-10.pdf", "application/pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if key != "reports/daily/2024-05-10.pdf" {
		t.Errorf("key = %q", key)
	}
	if aws.ToString(fake.input.Bucket) != "diet-reports" || aws.ToString(fake.input.ContentType) != "application/pdf" {
		t.Errorf("input = %+v", fake.input)
	}
	if string(fake.body) != "%PDF" {
		t.Errorf("body = %q", fake.body)
	}
}

func TestUploadError(t *testing.T) {
	boom := errors.New("boom")
	a := newReportArchive(&fakeS3{err: boom}, "b", "")
	if _, err := a.Upload(context.Background(), "x.pdf", "application/pdf", nil); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestDisabledArchive(t *testing.T) {
	a, err := NewReportArchive(context.Background(), config.ReportsConfig{})
	if err != nil || a != nil {
		t.Fatalf("NewReportArchive = %v, %v", a, err)
	}
	if _, err := a.Upload(context.Background(), "x.pdf", "application/pdf", nil); !errors.Is(err, ErrArchiveDisabled) {
		t.Fatalf("err = %v", err)
	}
}
