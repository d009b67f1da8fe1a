package send_reminders

import "time"

// Result итог одного прогона рассылки напоминаний
type Result struct {
	Skipped bool      // напоминания выключены в настройках
	From    time.Time // начало окна (полночь завтрашнего дня в часовом поясе салона)
	To      time.Time
	Found   int
	Sent    int
	Failed  int
}
