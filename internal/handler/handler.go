package handler

import "wiki-echo/internal/service"

type Handlers struct {
	Notification *NotificationHandler
	Event        *EventHandler
	Preference   *PreferenceHandler
	User         *UserHandler
	Icon         *IconHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Notification: NewNotificationHandler(services.Notification),
		Event:        NewEventHandler(services.Notification),
		Preference:   NewPreferenceHandler(services.Preference),
		User:         NewUserHandler(services.User),
		Icon:         NewIconHandler(services.Icon),
	}
}
