package main

import (
	"business-idea-workers/internal/catalog"
	awsclients "business-idea-workers/internal/common/aws"
	"business-idea-workers/internal/common/camunda"
	"business-idea-workers/internal/common/config"
	"business-idea-workers/internal/common/logger"
	"business-idea-workers/internal/common/validation"
	sendideareport "business-idea-workers/internal/workers/communication/send-idea-report"
	searchideas "business-idea-workers/internal/workers/data-access/search-ideas"
	calculateideascore "business-idea-workers/internal/workers/ideas/calculate-idea-score"
	generateideas "business-idea-workers/internal/workers/ideas/generate-ideas"
	refineresults "business-idea-workers/internal/workers/ideas/refine-results"
	togglesavedidea "business-idea-workers/internal/workers/ideas/toggle-saved-idea"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
)

type dependencies struct {
	catalog   *catalog.Catalog
	redis     *redis.Client
	es        *elasticsearch.Client
	validator *validation.Validator
	ses       awsclients.SESAPI
	sns       awsclients.SNSAPI
	log       logger.Logger
}

func registerWorkers(ws *camunda.Workers, cfg *config.Config, d *dependencies) {
	// --- Idea workers ---
	{
		wcfg := config.GetWorkerConfig(cfg, generateideas.TaskType)
		h := generateideas.NewHandler(&generateideas.Config{
			Timeout:  config.GetDuration(wcfg.Timeout),
			CacheTTL: wcfg.CacheTTL,
		}, d.catalog, d.redis, d.validator, d.log)
		ws.Start(generateideas.TaskType, wcfg, h.Handle)
	}

	{
		wcfg := config.GetWorkerConfig(cfg, calculateideascore.TaskType)
		h := calculateideascore.NewHandler(&calculateideascore.Config{
			Timeout: config.GetDuration(wcfg.Timeout),
		}, d.catalog, d.validator, d.log)
		ws.Start(calculateideascore.TaskType, wcfg, h.Handle)
	}

	{
		wcfg := config.GetWorkerConfig(cfg, refineresults.TaskType)
		h := refineresults.NewHandler(&refineresults.Config{
			Timeout: config.GetDuration(wcfg.Timeout),
		}, d.validator, d.log)
		ws.Start(refineresults.TaskType, wcfg, h.Handle)
	}

	{
		wcfg := config.GetWorkerConfig(cfg, togglesavedidea.TaskType)
		h := togglesavedidea.NewHandler(&togglesavedidea.Config{
			Timeout:  config.GetDuration(wcfg.Timeout),
			SavedTTL: wcfg.CacheTTL,
		}, d.catalog, d.redis, d.validator, d.log)
		ws.Start(togglesavedidea.TaskType, wcfg, h.Handle)
	}

	// --- Data access ---
	if d.es != nil {
		wcfg := config.GetWorkerConfig(cfg, searchideas.TaskType)
		h := searchideas.NewHandler(&searchideas.Config{
			Index:       cfg.Catalog.Index,
			Timeout:     config.GetDuration(wcfg.Timeout),
			DefaultSize: searchideas.DefaultSize,
		}, d.es, d.catalog, d.validator, d.log)
		ws.Start(searchideas.TaskType, wcfg, h.Handle)
	}

	// --- Communication ---
	{
		wcfg := config.GetWorkerConfig(cfg, sendideareport.TaskType)
		n := cfg.Notifications
		h := sendideareport.NewHandler(&sendideareport.Config{
			Timeout:      config.GetDuration(wcfg.Timeout),
			EmailEnabled: n.Email.Enabled,
			FromEmail:    n.Email.FromEmail,
			SMSEnabled:   n.SMS.Enabled,
			SenderID:     n.SMS.SenderID,
		}, d.ses, d.sns, d.validator, d.log)
		ws.Start(sendideareport.TaskType, wcfg, h.Handle)
	}
}
