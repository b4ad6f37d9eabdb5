package enums

type ProfileType string

const (
	ProfileGuardian         ProfileType = "guardian"
	ProfileSteward          ProfileType = "steward"
	ProfileShaper           ProfileType = "shaper"
	ProfileGuardianSteward  ProfileType = "guardian-steward"
	ProfileStewardShaper    ProfileType = "steward-shaper"
	ProfileAdaptiveGuardian ProfileType = "adaptive-guardian"
)

func (p ProfileType) Valid() bool {
	switch p {
	case ProfileGuardian, ProfileSteward, ProfileShaper,
		ProfileGuardianSteward, ProfileStewardShaper, ProfileAdaptiveGuardian:
		return true
	}
	return false
}
