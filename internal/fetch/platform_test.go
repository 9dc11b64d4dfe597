package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://boards.greenhouse.io/acme/jobs/123", PlatformGreenhouse},
		{"https://job-boards.greenhouse.io/acme/jobs/456", PlatformGreenhouse},
		{"https://jobs.lever.co/acme/abc-123", PlatformLever},
		{"https://acme.wd5.myworkdayjobs.com/en-US/careers/job/123", PlatformWorkday},
		{"https://acme.workday.com/jobs/1", PlatformWorkday},
		{"https://jobs.ashbyhq.com/acme/1234", PlatformAshby},
		{"https://jobs.smartrecruiters.com/Acme/1234", PlatformSmartRecruiters},
		{"https://careers.acme.com/jobs/1", PlatformUnknown},
		{"https://notgreenhouse.io/jobs", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestPlatformContentSelectors_Greenhouse(t *testing.T) {
	selectors := PlatformContentSelectors(PlatformGreenhouse)
	assert.Equal(t, ".job__description.body", selectors[0])
	// generic selectors follow as a fallback
	assert.Contains(t, selectors, "main")
}

func TestPlatformContentSelectors_Unknown(t *testing.T) {
	assert.Equal(t, JobPostingSelectors(), PlatformContentSelectors(PlatformUnknown))
}

func TestPlatformContentSelectors_DoesNotAlias(t *testing.T) {
	a := PlatformContentSelectors(PlatformLever)
	a[0] = "mutated"
	assert.NotEqual(t, "mutated", PlatformContentSelectors(PlatformLever)[0])
}

func TestPlatformNoiseSelectors(t *testing.T) {
	greenhouse := PlatformNoiseSelectors(PlatformGreenhouse)
	assert.Contains(t, greenhouse, "form")
	assert.Contains(t, greenhouse, ".application--wrapper")

	unknown := PlatformNoiseSelectors(PlatformUnknown)
	assert.Equal(t, commonNoise, unknown)
}
