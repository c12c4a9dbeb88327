package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrapeSubjectLine(t *testing.T) {
	cases := []struct {
		name        string
		text        string
		wantSubject string
		wantBody    string
		wantFound   bool
	}{
		{
			name:        "labelled",
			text:        "Subject: Welcome aboard\nHi Sam,\nThanks for joining.",
			wantSubject: "Welcome aboard",
			wantBody:    "Hi Sam,\nThanks for joining.",
			wantFound:   true,
		},
		{
			name:        "markdown and subject line label",
			text:        "## Subject Line: \"Last chance\"\r\n\r\nHello!",
			wantSubject: "Last chance",
			wantBody:    "Hello!",
			wantFound:   true,
		},
		{
			name:        "label after preamble",
			text:        "Here is your email.\n\n**Subject**: Big news\nBody text",
			wantSubject: "Big news",
			wantBody:    "Body text",
			wantFound:   true,
		},
		{
			name:        "no label uses first line",
			text:        "\n  Spring is here  \nShop the collection.",
			wantSubject: "Spring is here",
			wantBody:    "Shop the collection.",
			wantFound:   false,
		},
		{
			name:        "subject word without colon is not a label",
			text:        "Subject matter experts agree\nMore",
			wantSubject: "Subject matter experts agree",
			wantBody:    "More",
			wantFound:   false,
		},
		{
			name: "empty",
			text: "  \n ",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			subject, body, found := ScrapeSubjectLine(tc.text)
			assert.Equal(t, tc.wantSubject, subject)
			assert.Equal(t, tc.wantBody, body)
			assert.Equal(t, tc.wantFound, found)
		})
	}
}
