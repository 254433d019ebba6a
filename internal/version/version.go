package version

// Version and Commit are set at build time via ldflags:
//
//	-ldflags "-X vibeshield/internal/version.Version=v1.0.0 -X vibeshield/internal/version.Commit=abc1234"
//
// Builds without ldflags report "dev".
var (
	Version = "dev"
	Commit  = ""
)

// String is the one-line form printed by `vibeshield version`.
func String() string {
	s := "vibeshield " + Version
	if Commit != "" {
		s += " (" + Commit + ")"
	}
	return s
}
