package app

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drivebrowse/drivebrowse/pkg/browse"
	"github.com/drivebrowse/drivebrowse/pkg/dto"
	"github.com/drivebrowse/drivebrowse/pkg/remote"
)

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, errorStatus(remote.NewValidationError("missing name")))
	assert.Equal(t, http.StatusConflict, errorStatus(browse.ErrOperationInFlight))
	assert.Equal(t, http.StatusBadGateway, errorStatus(remote.NewOpError("List", "boom")))
	assert.Equal(t, http.StatusBadGateway, errorStatus(errors.New("plain")))
}

func TestNoticeBufferDrain(t *testing.T) {
	b := &noticeBuffer{}
	assert.Empty(t, b.Drain())

	b.Notify(dto.Notification{Title: "one"})
	b.Notify(dto.Notification{Title: "two"})

	drained := b.Drain()
	assert.Len(t, drained, 2)
	assert.Equal(t, "one", drained[0].Title)
	assert.Empty(t, b.Drain())
}
