package notificationhandler

import (
	log "github.com/sirupsen/logrus"
	"teamtrack-backend/db"
	notificationstore "teamtrack-backend/lib/notification/store"
	"teamtrack-backend/lib/smtp"
	"teamtrack-backend/models"
	notificationapimodels "teamtrack-backend/models/api/notification"
	dbmodels "teamtrack-backend/models/db"
)

type Provider interface {
	// Send and SendBatch never fail the caller: delivery problems are
	// logged and swallowed so a notification can't break a workflow step.
	Send(userID string, notifyType models.NotificationType, title, message, referenceID string, referenceType models.ReferenceType)
	SendBatch(userIDs []string, notifyType models.NotificationType, title, message, referenceID string, referenceType models.ReferenceType)
	SendEmail(to, subject, message string)
	List(userID string, unreadOnly bool, limit int) (list []notificationapimodels.NotificationView, err error)
	UnreadCount(userID string) (count int64, err error)
	MarkRead(userID, id string) error
	MarkAllRead(userID string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: notificationstore.NewInstance(db.DB),
	}
}

type impl struct {
	store notificationstore.Provider
}

func (i impl) Send(userID string, notifyType models.NotificationType, title, message, referenceID string, referenceType models.ReferenceType) {
	rec := dbmodels.Notification{
		UserID:        userID,
		Type:          notifyType,
		Title:         title,
		Message:       message,
		ReferenceID:   referenceID,
		ReferenceType: referenceType,
	}
	err := i.store.Create(rec)
	if err != nil {
		log.
			WithError(err).
			WithField("user_id", userID).
			WithField("notification_type", string(notifyType)).
			Error("failed to store notification")
	}
}

func (i impl) SendBatch(userIDs []string, notifyType models.NotificationType, title, message, referenceID string, referenceType models.ReferenceType) {
	if len(userIDs) == 0 {
		return
	}
	recs := make([]dbmodels.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		recs = append(recs, dbmodels.Notification{
			UserID:        userID,
			Type:          notifyType,
			Title:         title,
			Message:       message,
			ReferenceID:   referenceID,
			ReferenceType: referenceType,
		})
	}
	err := i.store.CreateBatch(recs)
	if err != nil {
		log.
			WithError(err).
			WithField("notification_type", string(notifyType)).
			Error("failed to store notification batch")
	}
}

func (i impl) SendEmail(to, subject, message string) {
	if smtp.Instance == nil {
		return
	}
	err := smtp.Instance.SendEMail(to, subject, message)
	if err != nil {
		log.
			WithError(err).
			WithField("recipient", to).
			Error("failed to send notification email")
	}
}

func (i impl) List(userID string, unreadOnly bool, limit int) (list []notificationapimodels.NotificationView, err error) {
	recs, err := i.store.List(userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	list = make([]notificationapimodels.NotificationView, 0, len(recs))
	for _, rec := range recs {
		list = append(list, notificationapimodels.NotificationConvert(rec))
	}
	return list, nil
}

func (i impl) UnreadCount(userID string) (count int64, err error) {
	return i.store.CountUnread(userID)
}

func (i impl) MarkRead(userID, id string) error {
	return i.store.MarkRead(userID, id)
}

func (i impl) MarkAllRead(userID string) error {
	return i.store.MarkAllRead(userID)
}
