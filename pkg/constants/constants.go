package constants

import "time"

// Block Kit defaults
const (
	// DefaultSelectActionID is the action id given to select menus built without one
	DefaultSelectActionID = "selection"
	// DefaultRadioActionID is the action id given to radio button groups built without one
	DefaultRadioActionID = "radioButtons"
	// ModalViewType is the view type used for every modal
	ModalViewType = "modal"
	// ResponseActionPush is the response_action value that pushes a view onto the modal stack
	ResponseActionPush = "push"
)

// Messaging
const (
	// DotCommandPrefix is the leading character of every dot-command name
	DotCommandPrefix = "."
	// ErrorIconEmoji marks messages posted by PostError
	ErrorIconEmoji = ":x:"
	// MaxOptionsPerResponse is Slack's limit on options returned to an external select
	MaxOptionsPerResponse = 100
)

// Event sources
const (
	// MessageEventType is the inner Events API type of channel messages
	MessageEventType = "message"
	// DefaultHTTPPort is the port the HTTP event source listens on
	DefaultHTTPPort = 3000
	// DefaultHTTPPathPrefix is the route prefix of the HTTP event source
	DefaultHTTPPathPrefix = "/slack"
	// MaxRequestBodyBytes bounds the body read from a Slack HTTP request
	MaxRequestBodyBytes = 1 << 20
)

// Timeouts
const (
	// DefaultRequestTimeout bounds the handling of one inbound HTTP request
	DefaultRequestTimeout = 10 * time.Second
	// DefaultShutdownTimeout is how long the HTTP source waits for in-flight requests
	DefaultShutdownTimeout = 5 * time.Second
	// DefaultReadHeaderTimeout protects the HTTP source from slow clients
	DefaultReadHeaderTimeout = 5 * time.Second
)

// Secret masking
const (
	// MinSecretLengthForMasking is the minimum secret length to apply masking
	MinSecretLengthForMasking = 10
	// SecretMaskPrefixLength is the length of prefix to show before masking
	SecretMaskPrefixLength = 5
	// SecretMaskSuffixLength is the length of suffix to show after masking
	SecretMaskSuffixLength = 4
)

// Logging defaults
const (
	// DefaultLogMaxSize is the default maximum log file size in MB
	DefaultLogMaxSize = 100
	// DefaultLogMaxAge is the default maximum number of days to retain old logs
	DefaultLogMaxAge = 30
)
