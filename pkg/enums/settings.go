package enums

// ProfileVisibility controls who can see a generator profile.
type ProfileVisibility string

const (
	ProfileVisibilityPublic  ProfileVisibility = "public"
	ProfileVisibilityPrivate ProfileVisibility = "private"
)

// CollectionTime is the preferred pickup period.
type CollectionTime string

const (
	CollectionTimeMorning   CollectionTime = "morning"
	CollectionTimeAfternoon CollectionTime = "afternoon"
	CollectionTimeEvening   CollectionTime = "evening"
)

// OilQuantity is the average amount of oil a generator hands over per pickup.
type OilQuantity string

const (
	OilQuantitySmall  OilQuantity = "small"
	OilQuantityMedium OilQuantity = "medium"
	OilQuantityLarge  OilQuantity = "large"
)
