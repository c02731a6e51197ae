// Package detector is the HTTP client for the bot detector service. It looks
// up player predictions, fetches a reporter's contribution stats and uploads
// sighted names.
package detector
