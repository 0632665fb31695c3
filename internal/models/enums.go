package models

// Enum-typed columns. The value sets are part of the persisted schema and
// must not change without a data migration.

type TeamTier string

const (
	TeamTierBasic TeamTier = "basic"
	TeamTierPro   TeamTier = "pro"
)

type TeamPrivacy string

const (
	TeamPrivacyPrivate            TeamPrivacy = "private"
	TeamPrivacyPublic             TeamPrivacy = "public"
	TeamPrivacyPublicAdminConfirm TeamPrivacy = "public_admin_confirm"
)

type FeedPermission string

const (
	FeedPermissionMembersAndTrainers FeedPermission = "members_and_trainers"
	FeedPermissionTrainersOnly       FeedPermission = "trainers_only"
)

type MemberRole string

const (
	RoleMember  MemberRole = "member"
	RoleTrainer MemberRole = "trainer"
	RoleAdmin   MemberRole = "admin"
)

type AssignmentType string

const (
	AssignmentOneTime  AssignmentType = "one_time"
	AssignmentPeriodic AssignmentType = "periodic"
)

type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "active"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentOverdue   AssignmentStatus = "overdue"
	AssignmentPaused    AssignmentStatus = "paused"
)

type PostType string

const (
	PostTypeText         PostType = "text"
	PostTypePoll         PostType = "poll"
	PostTypeTraining     PostType = "training"
	PostTypeEvent        PostType = "event"
	PostTypeAnnouncement PostType = "announcement"
)

type NotificationType string

const (
	NotificationTrainingAssigned  NotificationType = "training_assigned"
	NotificationTrainingCompleted NotificationType = "training_completed"
	NotificationGoalReached       NotificationType = "goal_reached"
	NotificationTeamInvitation    NotificationType = "team_invitation"
	NotificationTeamPost          NotificationType = "team_post"
	NotificationAssignmentOverdue NotificationType = "assignment_overdue"
	NotificationInformation       NotificationType = "information"
	NotificationReminder          NotificationType = "reminder"
	NotificationMarketing         NotificationType = "marketing"
)

func (r MemberRole) Valid() bool {
	switch r {
	case RoleMember, RoleTrainer, RoleAdmin:
		return true
	}
	return false
}

func (t PostType) Valid() bool {
	switch t {
	case PostTypeText, PostTypePoll, PostTypeTraining, PostTypeEvent, PostTypeAnnouncement:
		return true
	}
	return false
}
