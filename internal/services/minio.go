package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bazario_back_end/internal/database"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// UploadProductImage pousse l'image d'un produit dans le bucket et
// renvoie l'URL de l'objet. Le nom est préfixé d'un uuid pour éviter
// les collisions entre vendeurs.
func UploadProductImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	bucket := os.Getenv("MINIO_BUCKET")
	objectName := "products/" + uuid.New().String() + filepath.Ext(file.Filename)

	_, err = database.MinIO.PutObject(ctx, bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("http://%s/%s/%s", os.Getenv("MINIO_ENDPOINT"), bucket, objectName), nil
}

// GenerateSignedURL génère une URL signée à durée limitée pour un
// objet du bucket images
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	bucket := os.Getenv("MINIO_BUCKET")
	prefix := fmt.Sprintf("http://%s/%s/", os.Getenv("MINIO_ENDPOINT"), bucket)

	// Ne garder que le chemin relatif au bucket
	key := strings.TrimPrefix(objectPath, prefix)

	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket, key, duration, make(url.Values))
	if err != nil {
		return "", err
	}

	return presignedURL.String(), nil
}
