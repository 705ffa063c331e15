package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

func TestResendMailer_Send(t *testing.T) {
	var received resendEmailRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer server.Close()

	mailer := NewResendMailer("re_test", "Portfolio <noreply@example.com>")
	mailer.endpoint = server.URL

	err := mailer.Send(context.Background(), Email{
		To:      []string{"me@example.com"},
		ReplyTo: "visitor@example.com",
		Subject: "Hello",
		HTML:    "<p>Hi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "Portfolio <noreply@example.com>", received.From)
	assert.Equal(t, []string{"me@example.com"}, received.To)
	assert.Equal(t, "visitor@example.com", received.ReplyTo)
	assert.Equal(t, "<p>Hi</p>", received.Html)
}

func TestResendMailer_SendErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Invalid from address"}`))
	}))
	defer server.Close()

	mailer := NewResendMailer("re_test", "bad")
	mailer.endpoint = server.URL

	err := mailer.Send(context.Background(), Email{To: []string{"me@example.com"}, Text: "hi"})
	assert.ErrorContains(t, err, "Invalid from address")

	err = mailer.Send(context.Background(), Email{Text: "hi"})
	assert.ErrorContains(t, err, "recipient")

	err = NewResendMailer("", "from").Send(context.Background(), Email{To: []string{"me@example.com"}, Text: "hi"})
	assert.Error(t, err)
}

func TestSMTPMailer_RejectsEmptyBody(t *testing.T) {
	mailer := NewSMTPMailer("localhost", 2525, "user@example.com", "pass", "")
	assert.Equal(t, "user@example.com", mailer.from)

	err := mailer.Send(context.Background(), Email{To: []string{"me@example.com"}})
	assert.ErrorContains(t, err, "empty")
}

type mockMessageCreator struct {
	mock.Mock
}

func (m *mockMessageCreator) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twilioApi.ApiV2010Message), args.Error(1)
}

func TestTwilioNotifier_Notify(t *testing.T) {
	messages := &mockMessageCreator{}
	notifier := &TwilioNotifier{messages: messages, from: "+15550001111", to: "+15550002222"}

	sid := "SM123"
	messages.On("CreateMessage", mock.MatchedBy(func(p *twilioApi.CreateMessageParams) bool {
		return *p.To == "+15550002222" && *p.From == "+15550001111" && len(*p.Body) == maxSMSLength
	})).Return(&twilioApi.ApiV2010Message{Sid: &sid}, nil).Once()

	require.NoError(t, notifier.Notify(context.Background(), strings.Repeat("x", 1000)))

	messages.On("CreateMessage", mock.Anything).Return(nil, errors.New("invalid number")).Once()
	assert.ErrorContains(t, notifier.Notify(context.Background(), "hi"), "invalid number")

	messages.AssertExpectations(t)
}

type mockObjectPutter struct {
	mock.Mock
}

func (m *mockObjectPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3Uploader_Upload(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		endpoint      string
		publicBaseURL string
		contentType   string
		expectedType  string
		urlPrefix     string
	}{
		{
			name:         "aws url",
			contentType:  "image/png",
			expectedType: "image/png",
			urlPrefix:    "https://portfolio-assets.s3.us-east-1.amazonaws.com/uploads/2024/07/",
		},
		{
			name:          "public base url",
			publicBaseURL: "https://cdn.example.com/",
			expectedType:  "image/png",
			urlPrefix:     "https://cdn.example.com/uploads/2024/07/",
		},
		{
			name:         "compatible endpoint",
			endpoint:     "http://localhost:9000",
			contentType:  "application/octet-stream",
			expectedType: "image/png",
			urlPrefix:    "http://localhost:9000/portfolio-assets/uploads/2024/07/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			putter := &mockObjectPutter{}
			uploader := newS3Uploader(putter, "portfolio-assets", "/uploads/", "us-east-1", tt.endpoint, tt.publicBaseURL)
			uploader.now = func() time.Time { return fixed }

			putter.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
				return aws.ToString(in.Bucket) == "portfolio-assets" &&
					strings.HasPrefix(aws.ToString(in.Key), "uploads/2024/07/") &&
					strings.HasSuffix(aws.ToString(in.Key), ".png") &&
					aws.ToString(in.ContentType) == tt.expectedType &&
					aws.ToInt64(in.ContentLength) == 4
			})).Return(&s3.PutObjectOutput{}, nil)

			url, err := uploader.Upload(ctx, File{
				Filename:    "Screenshot.PNG",
				ContentType: tt.contentType,
				Size:        4,
				Body:        strings.NewReader("\x89PNG"),
			})
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(url, tt.urlPrefix), url)
			assert.True(t, strings.HasSuffix(url, ".png"), url)
			putter.AssertExpectations(t)
		})
	}
}

func TestS3Uploader_UploadFailure(t *testing.T) {
	putter := &mockObjectPutter{}
	uploader := newS3Uploader(putter, "portfolio-assets", "uploads", "us-east-1", "", "")
	putter.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("AccessDenied"))

	_, err := uploader.Upload(context.Background(), File{Filename: "a.pdf", Body: io.NopCloser(strings.NewReader("%PDF"))})
	assert.ErrorContains(t, err, "AccessDenied")

	_, err = uploader.Upload(context.Background(), File{Filename: "a.pdf"})
	assert.Error(t, err)
}
