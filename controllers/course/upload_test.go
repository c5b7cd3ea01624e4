package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	courseModels "learnhub/models/course"
	"learnhub/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(t *testing.T, f fixture, contentID uint, filename string, data []byte) (int, testutil.Response) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", fmt.Sprintf("/admin/content/%d/image", contentID), &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+f.admin)

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out testutil.Response
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestUploadContentImage(t *testing.T) {
	f := setup(t)

	course := courseModels.Course{Title: "Art History", Status: courseModels.CourseStatusActive}
	require.NoError(t, f.db.Create(&course).Error)
	module := courseModels.Module{CourseID: course.ID, Title: "Renaissance"}
	require.NoError(t, f.db.Create(&module).Error)
	image := courseModels.CourseContent{CourseID: course.ID, ModuleID: module.ID, Day: 1, Title: "Mona Lisa",
		ContentType: courseModels.ContentTypeImage, ImageURL: "https://img.example.com/mona.png"}
	require.NoError(t, f.db.Create(&image).Error)
	reading := courseModels.CourseContent{CourseID: course.ID, ModuleID: module.ID, Day: 1, Title: "Essay",
		ContentType: courseModels.ContentTypeText, TextContent: "Words"}
	require.NoError(t, f.db.Create(&reading).Error)

	png := []byte("\x89PNG\r\n\x1a\nfake")

	code, resp := upload(t, f, reading.ID, "essay.png", png)
	assert.Equal(t, fiber.StatusBadRequest, code, resp.Message)

	code, resp = upload(t, f, image.ID, "mona.exe", png)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, code, resp.Message)

	code, resp = upload(t, f, image.ID, "Mona.PNG", png)
	require.Equal(t, fiber.StatusOK, code, resp.Message)
	var updated courseModels.CourseContent
	resp.Decode(t, &updated)
	assert.Regexp(t, `^/uploads/[0-9a-f]{32}\.png$`, updated.ImageURL)

	served := testutil.Do(t, f.app, "GET", updated.ImageURL, "", nil)
	assert.Equal(t, fiber.StatusOK, served.Code)
}
