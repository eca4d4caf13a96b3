package vend

import (
	"context"
	"errors"
	"net/url"
	"strconv"
)

// Notifications returns one page of notifications.
func (c *Client) Notifications(ctx context.Context, page int) (*Page[Notification], error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return listPage[Notification](ctx, c, EndpointNotifications, q)
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	if id == "" {
		return invalidRequest(errMissingID, "notification id is required")
	}
	_, err := Call[struct{}](ctx, c, EndpointNotificationMarkRead, WithParam("id", id))
	return err
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := Call[struct{}](ctx, c, EndpointNotificationMarkAllRead)
	return err
}

// NotificationPreferences returns the delivery preferences.
func (c *Client) NotificationPreferences(ctx context.Context) (*NotificationPreference, error) {
	prefs, err := Call[NotificationPreference](ctx, c, EndpointNotificationPreferences)
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

// UpdateNotificationPreferences applies patch and returns the stored
// preferences.
func (c *Client) UpdateNotificationPreferences(ctx context.Context, patch NotificationPreferencePatch) (*NotificationPreference, error) {
	if patch.Empty() {
		return nil, invalidRequest(errors.New("empty patch"), "nothing to update")
	}
	prefs, err := Call[NotificationPreference](ctx, c, EndpointNotificationPreferencesUpdate, WithBody(patch))
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}
