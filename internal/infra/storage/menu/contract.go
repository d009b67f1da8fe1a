package menu

import "github.com/totalboostmarketing/reservation-system/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
