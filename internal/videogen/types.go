package videogen

// AspectRatio enumerates the output shapes the provider accepts.
type AspectRatio string

const (
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
)

// Valid reports whether the aspect ratio is one the provider accepts.
func (a AspectRatio) Valid() bool {
	switch a {
	case AspectLandscape, AspectPortrait:
		return true
	}
	return false
}

// Resolution enumerates the output resolutions the provider accepts.
type Resolution string

const (
	Resolution720p  Resolution = "720p"
	Resolution1080p Resolution = "1080p"
)

// Valid reports whether the resolution is one the provider accepts.
func (r Resolution) Valid() bool {
	switch r {
	case Resolution720p, Resolution1080p:
		return true
	}
	return false
}

// DefaultPrompt is substituted when a request carries no prompt text, so a
// submission never leaves with an empty prompt.
const DefaultPrompt = "Animate this scene with subtle, natural motion"

// SourceImage is a transport-ready still image.
type SourceImage struct {
	Data     []byte
	MIMEType string
}

// GenerateRequest describes one video generation. Zero values for
// AspectRatio and Resolution fall back to 16:9 and 720p.
type GenerateRequest struct {
	Prompt      string
	Image       *SourceImage
	AspectRatio AspectRatio
	Resolution  Resolution
}

// Job is an opaque handle to a long-running generation operation owned by
// the remote service. Name is the operation resource name used for polling.
type Job struct {
	Name string
}

// CompletedJob is a job the remote service reported done, still carrying the
// result payload the download location is extracted from.
type CompletedJob struct {
	Job      Job
	response *operationResponse
}

// ResultURI returns the download location of the produced video, or an empty
// string when the completed operation carries none.
func (j *CompletedJob) ResultURI() string {
	if j == nil || j.response == nil || j.response.GenerateVideoResponse == nil {
		return ""
	}
	for _, sample := range j.response.GenerateVideoResponse.GeneratedSamples {
		if sample.Video != nil && sample.Video.URI != "" {
			return sample.Video.URI
		}
	}
	return ""
}

// Video holds the downloaded bytes of a generated clip.
type Video struct {
	Data     []byte
	MIMEType string
}

// Wire types for the predictLongRunning surface.

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string       `json:"prompt"`
	Image  *inlineImage `json:"image,omitempty"`
}

type inlineImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

type predictParameters struct {
	SampleCount int    `json:"sampleCount"`
	AspectRatio string `json:"aspectRatio"`
	Resolution  string `json:"resolution"`
}

type operation struct {
	Name     string             `json:"name"`
	Done     bool               `json:"done"`
	Error    *operationError    `json:"error,omitempty"`
	Response *operationResponse `json:"response,omitempty"`
}

type operationError struct {
	Code    int    `json:"code,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

type operationResponse struct {
	GenerateVideoResponse *generateVideoResponse `json:"generateVideoResponse,omitempty"`
}

type generateVideoResponse struct {
	GeneratedSamples []generatedSample `json:"generatedSamples,omitempty"`
}

type generatedSample struct {
	Video *videoRef `json:"video,omitempty"`
}

type videoRef struct {
	URI string `json:"uri,omitempty"`
}

type apiErrorResponse struct {
	Error operationError `json:"error"`
}
