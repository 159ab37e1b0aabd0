package bot

const (
	cmdStart   = "start"
	cmdHelp    = "help"
	cmdGetID   = "get_id"
	cmdNewPost = "new_post"
	cmdCancel  = "cancel"
	cmdConfirm = "confirm"

	statsJobTag = "stats_report_job"
)
