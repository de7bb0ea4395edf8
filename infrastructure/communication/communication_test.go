package communication

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"technuob.com/atomlift/infrastructure/devops"
)

type posted struct {
	channel, text string
}

func slackServer(t *testing.T) (*httptest.Server, *[]posted) {
	var mu sync.Mutex
	var msgs []posted
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat.postMessage"), r.URL.Path)
		assert.NoError(t, r.ParseForm())
		mu.Lock()
		msgs = append(msgs, posted{channel: r.FormValue("channel"), text: r.FormValue("text")})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ok":true,"channel":"`+r.FormValue("channel")+`","ts":"1700000000.000100"}`)
	}))
	t.Cleanup(srv.Close)
	return srv, &msgs
}

func TestSlackChannels(t *testing.T) {
	srv, msgs := slackServer(t)
	s := NewSlack("xoxb-test", SlackOption{InfoChannelID: "CINFO", APIURL: srv.URL + "/"})

	require.NoError(t, s.Info("Ravi checked in"))
	require.NoError(t, s.Error("sync failed"))

	assert.Equal(t, []posted{
		{channel: "CINFO", text: "Ravi checked in"},
		{channel: "CINFO", text: "sync failed"},
	}, *msgs)
}

func TestSlackWithoutChannel(t *testing.T) {
	s := NewSlack("xoxb-test", SlackOption{})
	assert.ErrorIs(t, s.Info("hello"), ErrNoChannel)
}

func TestConnectSlackNeedsTokenAndChannel(t *testing.T) {
	assert.Nil(t, ConnectSlack(devops.SlackConfig{Token: "xoxb"}))
	assert.Nil(t, ConnectSlack(devops.SlackConfig{InfoChannel: "C1"}))
	assert.NotNil(t, ConnectSlack(devops.SlackConfig{Token: "xoxb", InfoChannel: "C1"}))
}

type fakeSES struct {
	input *ses.SendRawEmailInput
}

func (f *fakeSES) SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	f.input = params
	return &ses.SendRawEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func sampleEmail() *EmailInfo {
	return &EmailInfo{
		From:    "reports@atomlift.in",
		To:      []string{"manager@atomlift.in"},
		Cc:      []string{"hr@atomlift.in"},
		Subject: "Attendance March",
		Text:    "Report attached.",
		Attachments: []Attachment{{
			Filename:    "attendance.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     bytes.Repeat([]byte("x"), 200),
		}},
	}
}

func TestBuildEmailBuffer(t *testing.T) {
	buf, err := BuildEmailBuffer(sampleEmail())
	require.NoError(t, err)

	msg, err := mail.ReadMessage(buf)
	require.NoError(t, err)
	assert.Equal(t, "reports@atomlift.in", msg.Header.Get("From"))
	assert.Equal(t, "manager@atomlift.in", msg.Header.Get("To"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	reader := multipart.NewReader(msg.Body, params["boundary"])
	first, err := reader.NextPart()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.Header.Get("Content-Type"), "multipart/alternative"))

	att, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "attendance.xlsx", att.FileName())
	encoded, err := io.ReadAll(att)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(encoded), "\r\n", ""))
	require.NoError(t, err)
	assert.Len(t, decoded, 200)
}

func TestMailerSendEmail(t *testing.T) {
	client := &fakeSES{}
	id, err := NewMailer(client).SendEmail(context.Background(), sampleEmail())
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	require.NotNil(t, client.input)
	assert.Equal(t, "reports@atomlift.in", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"manager@atomlift.in", "hr@atomlift.in"}, client.input.Destinations)
	assert.NotEmpty(t, client.input.RawMessage.Data)

	_, err = NewMailer(client).SendEmail(context.Background(), &EmailInfo{From: "a@b.in"})
	assert.Error(t, err)
}
