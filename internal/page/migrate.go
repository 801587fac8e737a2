package page

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sitesensei/app/internal/user"
)

// Migrate applies the application schema using Gorm's AutoMigrate and logs progress.
func Migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	logFields := logrus.Fields{"component": "page.migrate"}
	if logger != nil {
		logger.WithFields(logFields).Info("applying application schema")
	}

	if err := db.WithContext(ctx).AutoMigrate(&user.User{}, &Page{}, &PageRevision{}); err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithField("error", err.Error()).Error("schema migration failed")
		}
		return eris.Wrap(err, "auto migrating application schema")
	}

	if logger != nil {
		logger.WithFields(logFields).Info("schema migration complete")
	}

	return nil
}
