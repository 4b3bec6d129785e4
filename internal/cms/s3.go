// internal/cms/s3.go
package cms

import (
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/openmerce/storefront/internal/config"
)

// deleteBatchSize is the DeleteObjects request cap imposed by S3.
const deleteBatchSize = 1000

// S3FileManager stores assets in an S3 bucket. Uploads go through the SDK
// uploader so bodies stream in parts instead of being buffered whole, and
// listings page with ListObjectsV2Pages so folders with more than 1000
// objects are fully visible.
type S3FileManager struct {
	client        *s3.S3
	uploader      *s3manager.Uploader
	bucket        string
	region        string
	cloudFrontURL string
}

func NewS3FileManager(cfg config.AWSConfig) (*S3FileManager, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3FileManager{
		client:        s3.New(sess),
		uploader:      s3manager.NewUploader(sess),
		bucket:        cfg.S3Bucket,
		region:        cfg.Region,
		cloudFrontURL: cfg.CloudFrontURL,
	}, nil
}

func (m *S3FileManager) Add(storeCode, fileType, name string, body io.Reader, size int64, contentType string) (*FileInfo, error) {
	key, err := objectKey(storeCode, fileType, name)
	if err != nil {
		return nil, err
	}

	_, err = m.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &FileInfo{
		Name:        name,
		Key:         key,
		Size:        size,
		ContentType: contentType,
		URL:         m.URL(storeCode, fileType, name),
	}, nil
}

func (m *S3FileManager) Get(storeCode, fileType, name string) (io.ReadCloser, *FileInfo, error) {
	key, err := objectKey(storeCode, fileType, name)
	if err != nil {
		return nil, nil, err
	}

	out, err := m.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get object from S3: %w", err)
	}

	info := &FileInfo{
		Name:        name,
		Key:         key,
		Size:        aws.Int64Value(out.ContentLength),
		ContentType: aws.StringValue(out.ContentType),
		URL:         m.URL(storeCode, fileType, name),
	}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}
	return out.Body, info, nil
}

func (m *S3FileManager) List(storeCode, fileType string) ([]FileInfo, error) {
	prefix := folderPrefix(storeCode, fileType)

	var files []FileInfo
	err := m.client.ListObjectsV2Pages(&s3.ListObjectsV2Input{
		Bucket: aws.String(m.bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			key := aws.StringValue(obj.Key)
			name := key[len(prefix):]
			if name == "" {
				continue
			}
			info := FileInfo{
				Name: name,
				Key:  key,
				Size: aws.Int64Value(obj.Size),
				URL:  m.URL(storeCode, fileType, name),
			}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			files = append(files, info)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects in S3: %w", err)
	}

	return files, nil
}

func (m *S3FileManager) Remove(storeCode, fileType, name string) error {
	key, err := objectKey(storeCode, fileType, name)
	if err != nil {
		return err
	}

	_, err = m.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	return nil
}

// RemoveFolder deletes every object under the store/type prefix, batching
// DeleteObjects calls at the S3 limit.
func (m *S3FileManager) RemoveFolder(storeCode, fileType string) error {
	prefix := folderPrefix(storeCode, fileType)

	var batch []*s3.ObjectIdentifier
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := m.client.DeleteObjects(&s3.DeleteObjectsInput{
			Bucket: aws.String(m.bucket),
			Delete: &s3.Delete{
				Objects: batch,
				Quiet:   aws.Bool(true),
			},
		})
		batch = batch[:0]
		return err
	}

	var pageErr error
	err := m.client.ListObjectsV2Pages(&s3.ListObjectsV2Input{
		Bucket: aws.String(m.bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			batch = append(batch, &s3.ObjectIdentifier{Key: obj.Key})
			if len(batch) == deleteBatchSize {
				if pageErr = flush(); pageErr != nil {
					return false
				}
			}
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("failed to list objects for deletion: %w", err)
	}
	if pageErr != nil {
		return fmt.Errorf("failed to delete objects from S3: %w", pageErr)
	}
	if err := flush(); err != nil {
		return fmt.Errorf("failed to delete objects from S3: %w", err)
	}
	return nil
}

func (m *S3FileManager) URL(storeCode, fileType, name string) string {
	key, err := objectKey(storeCode, fileType, name)
	if err != nil {
		return ""
	}

	if m.cloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", m.cloudFrontURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.bucket, m.region, key)
}

// PresignGet builds a time limited download URL.
func (m *S3FileManager) PresignGet(storeCode, fileType, name string, expiration time.Duration) (string, error) {
	key, err := objectKey(storeCode, fileType, name)
	if err != nil {
		return "", err
	}

	req, _ := m.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url, nil
}
