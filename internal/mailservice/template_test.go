package mailservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTemplate(t *testing.T) {
	template := &Template{}

	testCases := []struct {
		name         string
		templateName string
		data         any
		expectedErr  bool
	}{
		{
			name:         "success",
			templateName: contactTemplate,
			data: &ContactMessage{
				Name:    "Ada",
				Email:   "ada@example.com",
				Phone:   "555-0100",
				Message: "<b>Hello</b> & welcome",
			},
			expectedErr: false,
		},
		{
			name:         "invalid template name",
			templateName: "invalid_template.tmpl",
			data:         nil,
			expectedErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, p, err := template.ParseTemplate(tc.templateName, tc.data)
			assert.Equal(t, tc.expectedErr, err != nil)

			if err == nil {
				assert.Equal(t, "You have received new email from Ada", s.String())
				assert.Equal(t, "Name: Ada\nEmail: ada@example.com\nPhone: 555-0100\nMessage: <b>Hello</b> & welcome\n", p.String())
			}
		})
	}
}
