package cmd

import (
	"context"
	"errors"
	"fmt"

	httpin "orderengine/internal/adapters/in/http"
	"orderengine/internal/adapters/out/collaborators"
	"orderengine/internal/adapters/out/memory"
	"orderengine/internal/adapters/out/postgres"
	"orderengine/internal/adapters/out/postgres/catalogrepo"
	"orderengine/internal/adapters/out/redislock"
	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/application/usecases/queries"
	"orderengine/internal/core/domain/services"
	"orderengine/internal/core/ports"
	"orderengine/internal/jobs"

	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// CompositionRoot owns the adapters selected by Config and builds every
// handler on top of them.
type CompositionRoot struct {
	cfg       Config
	logger    *zap.Logger
	gormDB    *gorm.DB
	uows      ports.UnitOfWorkFactory
	locker    ports.OrderLocker
	catalog   ports.ProductCatalog
	notifier  ports.Notifier
	inventory ports.Inventory
	resolver  services.CarrierResolver
	closers   []func() error
}

func NewCompositionRoot(ctx context.Context, cfg Config, logger *zap.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{cfg: cfg, logger: logger, resolver: services.NewCarrierResolver()}

	if err := c.initStore(); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.initLocker(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.initCollaborators()
	return c, nil
}

func (c *CompositionRoot) initStore() error {
	if c.cfg.StoreBackend == BackendPostgres || c.cfg.CatalogBackend == BackendPostgres {
		db, err := gorm.Open(gormpostgres.Open(c.cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		c.closers = append(c.closers, sqlDB.Close)
		if err := postgres.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		c.gormDB = db
	}

	if c.cfg.StoreBackend == BackendPostgres {
		c.uows = postgres.NewGormUnitOfWorkFactory(c.gormDB)
	} else {
		c.uows = memory.NewUnitOfWorkFactory(memory.NewStore())
	}
	if c.cfg.CatalogBackend == BackendPostgres {
		c.catalog = catalogrepo.NewGormProductCatalog(c.gormDB)
	} else {
		c.catalog = memory.NewCatalog()
	}
	c.logger.Info("store ready",
		zap.String("orders", c.cfg.StoreBackend),
		zap.String("catalog", c.cfg.CatalogBackend))
	return nil
}

func (c *CompositionRoot) initLocker(ctx context.Context) error {
	if c.cfg.LockBackend != BackendRedis {
		c.locker = memory.NewLocker()
		return nil
	}
	client, err := redislock.NewClient(ctx, c.cfg.RedisAddr)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, client.Close)
	c.locker = redislock.NewLocker(client, "", c.cfg.LockTTL)
	c.logger.Info("redis order locks", zap.String("addr", c.cfg.RedisAddr), zap.Duration("ttl", c.cfg.LockTTL))
	return nil
}

func (c *CompositionRoot) initCollaborators() {
	if c.cfg.NotifierURL != "" {
		c.notifier = collaborators.NewHTTPNotifier(c.cfg.NotifierURL, nil)
	} else {
		c.notifier = collaborators.NewLogNotifier(c.logger)
	}
	if c.cfg.InventoryURL != "" {
		c.inventory = collaborators.NewHTTPInventory(c.cfg.InventoryURL, nil)
	} else {
		c.inventory = collaborators.NewLogInventory(c.logger)
	}
}

// Close releases database and redis connections.
func (c *CompositionRoot) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uows.Create()
	})
}

func (c *CompositionRoot) outboxUoWFactory() commands.OutboxUoWFactory {
	return FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uows.Create()
	})
}

func (c *CompositionRoot) orderReader() queries.OrderReader {
	return c.uows.Create().OrderRepository()
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.cfg.TaxRate)
}

func (c *CompositionRoot) CreateSetStatusCommandHandler() commands.SetStatusCommandHandler {
	return commands.NewSetStatusCommandHandler(c.orderUoWFactory(), c.locker)
}

func (c *CompositionRoot) CreateBulkSetStatusCommandHandler() commands.BulkSetStatusCommandHandler {
	return commands.NewBulkSetStatusCommandHandler(c.CreateSetStatusCommandHandler(), c.cfg.BulkConcurrency)
}

func (c *CompositionRoot) CreateRecordPaymentCommandHandler() commands.RecordPaymentCommandHandler {
	return commands.NewRecordPaymentCommandHandler(c.orderUoWFactory(), c.locker)
}

func (c *CompositionRoot) CreateCompletePickingCommandHandler() commands.CompletePickingCommandHandler {
	return commands.NewCompletePickingCommandHandler(c.orderUoWFactory(), c.locker)
}

func (c *CompositionRoot) CreateCompletePackingCommandHandler() commands.CompletePackingCommandHandler {
	return commands.NewCompletePackingCommandHandler(c.orderUoWFactory(), c.locker)
}

func (c *CompositionRoot) CreateDispatchOrderCommandHandler() commands.DispatchOrderCommandHandler {
	return commands.NewDispatchOrderCommandHandler(c.orderUoWFactory(), c.locker, c.resolver)
}

func (c *CompositionRoot) CreateUpdateTrackingCommandHandler() commands.UpdateTrackingCommandHandler {
	return commands.NewUpdateTrackingCommandHandler(c.orderUoWFactory(), c.locker, c.resolver)
}

func (c *CompositionRoot) CreateEditItemsCommandHandler() commands.EditItemsCommandHandler {
	return commands.NewEditItemsCommandHandler(c.orderUoWFactory(), c.locker)
}

func (c *CompositionRoot) CreateAddItemCommandHandler() commands.AddItemCommandHandler {
	return commands.NewAddItemCommandHandler(c.orderUoWFactory(), c.locker, c.catalog)
}

func (c *CompositionRoot) CreateUpdateCustomerCommandHandler() commands.UpdateCustomerCommandHandler {
	return commands.NewUpdateCustomerCommandHandler(c.orderUoWFactory(), c.locker)
}

func (c *CompositionRoot) CreateRefundCommandHandler() commands.RefundCommandHandler {
	return commands.NewRefundCommandHandler(c.orderUoWFactory(), c.locker)
}

func (c *CompositionRoot) CreateAddNoteCommandHandler() commands.AddNoteCommandHandler {
	return commands.NewAddNoteCommandHandler(c.orderUoWFactory(), c.locker)
}

func (c *CompositionRoot) CreateSendEmailCommandHandler() commands.SendEmailCommandHandler {
	return commands.NewSendEmailCommandHandler(c.orderUoWFactory(), c.locker)
}

func (c *CompositionRoot) CreateRecordEmailCommandHandler() commands.RecordEmailCommandHandler {
	return commands.NewRecordEmailCommandHandler(c.orderUoWFactory(), c.locker)
}

func (c *CompositionRoot) CreateDispatchOutboxCommandHandler() commands.DispatchOutboxCommandHandler {
	return commands.NewDispatchOutboxCommandHandler(
		c.outboxUoWFactory(),
		c.notifier,
		c.inventory,
		c.CreateRecordEmailCommandHandler(),
		commands.OutboxDispatcherConfig{
			MaxAttempts:  c.cfg.OutboxMaxAttempts,
			ClaimTimeout: c.cfg.OutboxClaimTimeout,
		},
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.orderReader())
}

func (c *CompositionRoot) CreateGetTimelineQueryHandler() queries.GetTimelineQueryHandler {
	return queries.NewGetTimelineQueryHandler(c.orderReader())
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.orderReader())
}

// CreateHTTPServer wires every command and query into the HTTP adapter.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:     c.CreateCreateOrderCommandHandler(),
		SetStatus:       c.CreateSetStatusCommandHandler(),
		BulkSetStatus:   c.CreateBulkSetStatusCommandHandler(),
		RecordPayment:   c.CreateRecordPaymentCommandHandler(),
		CompletePicking: c.CreateCompletePickingCommandHandler(),
		CompletePacking: c.CreateCompletePackingCommandHandler(),
		DispatchOrder:   c.CreateDispatchOrderCommandHandler(),
		UpdateTracking:  c.CreateUpdateTrackingCommandHandler(),
		EditItems:       c.CreateEditItemsCommandHandler(),
		AddItem:         c.CreateAddItemCommandHandler(),
		UpdateCustomer:  c.CreateUpdateCustomerCommandHandler(),
		Refund:          c.CreateRefundCommandHandler(),
		AddNote:         c.CreateAddNoteCommandHandler(),
		SendEmail:       c.CreateSendEmailCommandHandler(),
		GetOrder:        c.CreateGetOrderQueryHandler(),
		GetTimeline:     c.CreateGetTimelineQueryHandler(),
		ListOrders:      c.CreateListOrdersQueryHandler(),
	}, c.resolver, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateDispatchOutboxCommandHandler(),
		c.uows.Create().OutboxRepository(),
		jobs.Schedules{Dispatch: c.cfg.OutboxSchedule},
		c.cfg.OutboxBatchSize,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
