// Package compose builds channel-specific notification text. Composition
// is pure: identical inputs produce identical bodies, so resends stay
// idempotent and tests need no network.
package compose

import (
	"fmt"
	"strings"

	"service-rider-notify/internal/domain"
)

const dateLayout = "Mon Jan 2"

// Composer builds message bodies for both channels plus the short
// acknowledgement and info replies used on the inbound path.
type Composer struct {
	deepLinkBase string
}

// New creates a Composer. deepLinkBase is optional; when empty, SMS
// bodies carry no link.
func New(deepLinkBase string) *Composer {
	return &Composer{deepLinkBase: strings.TrimRight(deepLinkBase, "/")}
}

// SMS builds the compact body with reply keywords and an optional deep link.
func (c *Composer) SMS(a domain.Assignment, req domain.RequestDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ride %s %s", a.ID, a.EventDate.Format(dateLayout))
	if a.StartTime != "" && a.EndTime != "" {
		fmt.Fprintf(&b, " %s-%s", a.StartTime, a.EndTime)
	}
	if a.StartLocation != "" && a.EndLocation != "" {
		fmt.Fprintf(&b, ", %s to %s", a.StartLocation, a.EndLocation)
	}
	if req.Courtesy {
		b.WriteString(" (courtesy)")
	}
	b.WriteString(". Reply CONFIRM, DECLINE or INFO.")
	if c.deepLinkBase != "" {
		fmt.Fprintf(&b, " %s/assignments/%s", c.deepLinkBase, a.ID)
	}
	return b.String()
}

// Email builds the verbose variant with full request detail and the
// co-assigned riders, when any.
func (c *Composer) Email(a domain.Assignment, req domain.RequestDetails) (subject, body string) {
	subject = fmt.Sprintf("Ride assignment %s - %s", a.ID, a.EventDate.Format(dateLayout))

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", a.RiderName)
	fmt.Fprintf(&b, "You have been assigned ride %s (request %s).\n\n", a.ID, a.RequestID)
	fmt.Fprintf(&b, "Date: %s\n", a.EventDate.Format(dateLayout))
	if a.StartTime != "" && a.EndTime != "" {
		fmt.Fprintf(&b, "Time: %s - %s\n", a.StartTime, a.EndTime)
	}
	if a.StartLocation != "" {
		fmt.Fprintf(&b, "Pickup: %s\n", a.StartLocation)
	}
	if a.EndLocation != "" {
		fmt.Fprintf(&b, "Drop-off: %s\n", a.EndLocation)
	}
	if req.RequesterName != "" {
		fmt.Fprintf(&b, "Requested by: %s\n", req.RequesterName)
	}
	if req.Courtesy {
		b.WriteString("This is a courtesy ride.\n")
	}
	if len(req.CoRiders) > 0 {
		fmt.Fprintf(&b, "Also assigned: %s\n", strings.Join(req.CoRiders, ", "))
	}
	if req.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", req.Notes)
	}
	b.WriteString("\nReply to the SMS with CONFIRM, DECLINE or INFO.\n")
	return subject, b.String()
}

// ConfirmAck is the short reply sent after a CONFIRM, including repeated
// confirmations of an already-confirmed assignment.
func (c *Composer) ConfirmAck(assignmentID string) string {
	return fmt.Sprintf("Thanks! Ride %s is confirmed.", assignmentID)
}

// ConfirmNoted is the CONFIRM acknowledgement used when no ride is on
// file for the rider anymore; late or stray confirmations still get an
// answer instead of silence.
func (c *Composer) ConfirmNoted() string {
	return "Thanks! Your confirmation is noted."
}

// DeclineAck is the short reply sent after a DECLINE.
func (c *Composer) DeclineAck(assignmentID string) string {
	return fmt.Sprintf("Got it. Ride %s is declined; the dispatcher will reassign it.", assignmentID)
}

// Info builds the detail reply for an INFO_REQUEST from current
// assignment and request data. No state changes.
func (c *Composer) Info(a domain.Assignment, req domain.RequestDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ride %s on %s", a.ID, a.EventDate.Format(dateLayout))
	if a.StartTime != "" && a.EndTime != "" {
		fmt.Fprintf(&b, ", %s-%s", a.StartTime, a.EndTime)
	}
	if a.StartLocation != "" && a.EndLocation != "" {
		fmt.Fprintf(&b, ". %s to %s", a.StartLocation, a.EndLocation)
	}
	if req.Notes != "" {
		fmt.Fprintf(&b, ". Notes: %s", req.Notes)
	}
	b.WriteString(".")
	return b.String()
}
