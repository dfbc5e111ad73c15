package cloudtranslate

const (
	Name        = "cloudtranslate"
	Description = "Cached, validated façade over machine-translation backends"
)

// Version and Commit are stamped at link time, e.g.
//
//	go build -ldflags "-X github.com/ZaguanLabs/cloudtranslate.Commit=$(git rev-parse HEAD)"
var (
	Version = "0.1.0"
	Commit  = ""
)

// FullVersion appends the short commit to Version when one was stamped.
func FullVersion() string {
	if Commit == "" {
		return Version
	}
	short := Commit
	if len(short) > 7 {
		short = short[:7]
	}
	return Version + "+" + short
}

// UserAgent identifies the library to translation services.
func UserAgent() string {
	return Name + "/" + Version
}
