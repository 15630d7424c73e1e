package dto

// NotificationQuery limits the inbox page size.
type NotificationQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}
