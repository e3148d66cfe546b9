package utils

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/big"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"kommunity/models"
)

func RespondWithError(w http.ResponseWriter, status int, error models.Error) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(error); err != nil {
		log.Printf("Ошибка при отправке JSON ошибки: %v", err)
	}
}

func ResponseJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Не удалось сформировать JSON", http.StatusInternalServerError)
	}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func ComparePasswords(hashedPassword string, password []byte) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), password)
	if err != nil {
		log.Println(err)
		return false
	}
	return true
}

func GenerateToken(user models.User, expiration time.Duration) (string, error) {
	secret := os.Getenv("SECRET")
	if secret == "" {
		return "", errors.New("SECRET environment variable is not set")
	}

	claims := jwt.MapClaims{
		"iss":     "kommunity",
		"user_id": user.ID,
		"exp":     time.Now().Add(expiration).Unix(),
		"iat":     time.Now().Unix(),
	}
	if user.Email != "" {
		claims["email"] = user.Email
	} else if user.Phone != "" {
		claims["phone"] = user.Phone
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GenerateRefreshToken(user models.User, expiration time.Duration) (string, error) {
	secret := os.Getenv("SECRET")
	if secret == "" {
		return "", errors.New("SECRET environment variable is not set")
	}

	claims := jwt.MapClaims{
		"iss":     "kommunity",
		"user_id": user.ID,
		"exp":     time.Now().Add(expiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken checks the Bearer token and returns the user id it carries.
func VerifyToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("Authorization header missing")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("Invalid Authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("Unexpected signing method")
		}
		return []byte(os.Getenv("SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("Invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("user_id not found in token")
	}
	return userID, nil
}

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomID returns a 10-character uppercase alphanumeric post id.
// Not collision-resistant; the post layer rejects a duplicate within the
// same date bucket and that is the only defense.
func GenerateRandomID() string {
	b := make([]byte, 10)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			log.Printf("Error generating random id: %v", err)
			return ""
		}
		b[i] = idAlphabet[n.Int64()]
	}
	return string(b)
}

// SchoolYearStart reads SCHOOL_YEAR_START (YYYY-MM-DD). The views assume
// a fixed start, so a bad value falls back to the default rather than
// failing the request.
func SchoolYearStart() time.Time {
	start, err := time.Parse("2006-01-02", os.Getenv("SCHOOL_YEAR_START"))
	if err != nil {
		start, _ = time.Parse("2006-01-02", "2024-09-02")
	}
	return start
}

// WeekNumber is 1 on the school-year start date and grows by one every
// seven days after it.
func WeekNumber(date, start time.Time) int {
	days := int(date.Sub(start).Hours() / 24)
	return days/7 + 1
}

func newS3() (*s3.S3, string, error) {
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	region := os.Getenv("AWS_REGION")
	bucketName := os.Getenv("S3_BUCKET")

	if accessKey == "" || secretKey == "" || region == "" || bucketName == "" {
		return nil, "", fmt.Errorf("AWS credentials, region or bucket not set in environment")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create AWS session: %v", err)
	}
	return s3.New(sess), bucketName, nil
}

// UploadFileToFolder stores one file under "<folder>/<fileName>" and
// returns its public URL.
func UploadFileToFolder(file multipart.File, folder, fileName string) (string, error) {
	svc, bucketName, err := newS3()
	if err != nil {
		return "", err
	}

	buf := new(bytes.Buffer)
	_, err = io.Copy(buf, file)
	if err != nil {
		return "", fmt.Errorf("failed to read file buffer: %v", err)
	}

	key := folder + "/" + fileName
	_, err = svc.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, os.Getenv("AWS_REGION"), key)
	return url, nil
}

// ResolveFolderURL lists the storage folder named by a user or post id
// and returns the URL of the first object in it. Which object is "first"
// among several is whatever the listing returns first.
func ResolveFolderURL(folder string) (string, error) {
	svc, bucketName, err := newS3()
	if err != nil {
		return "", err
	}

	out, err := svc.ListObjectsV2(&s3.ListObjectsV2Input{
		Bucket:  aws.String(bucketName),
		Prefix:  aws.String(folder + "/"),
		MaxKeys: aws.Int64(1),
	})
	if err != nil {
		return "", fmt.Errorf("failed to list folder %s: %v", folder, err)
	}
	if len(out.Contents) == 0 {
		return "", fmt.Errorf("no objects in folder %s", folder)
	}

	key := aws.StringValue(out.Contents[0].Key)
	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, os.Getenv("AWS_REGION"), key)
	return url, nil
}
