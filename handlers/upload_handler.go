package handlers

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/anjiri1684/parkspace/apperror"
	config "github.com/anjiri1684/parkspace/configs"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

// GenerateUploadSignature signs a direct browser upload of a payment
// screenshot. The returned URL is later sent as payment_screenshot.
func GenerateUploadSignature(c *fiber.Ctx) error {
	cloudinaryURL := config.App.CloudinaryURL
	if cloudinaryURL == "" {
		return apperror.Respond(c, apperror.Internal(errors.New("CLOUDINARY_URL is not configured")))
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return apperror.Respond(c, apperror.Internal(err))
	}

	parsedURL, err := url.Parse(cloudinaryURL)
	if err != nil {
		return apperror.Respond(c, apperror.Internal(err))
	}
	secret, _ := parsedURL.User.Password()

	folder := config.App.UploadFolder
	paramsToSign, err := api.StructToParams(uploader.UploadParams{
		Folder: folder,
	})
	if err != nil {
		return apperror.Respond(c, apperror.Internal(err))
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, secret)
	if err != nil {
		return apperror.Respond(c, apperror.Internal(err))
	}

	return c.JSON(fiber.Map{
		"signature":  signature,
		"timestamp":  timestamp,
		"api_key":    cld.Config.Cloud.APIKey,
		"cloud_name": cld.Config.Cloud.CloudName,
		"folder":     folder,
	})
}
